package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softrender/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file. Only geometry statements are read:
// v, vt, vn and f. Polygons are fan triangulated.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return ReadOBJ(f, filepath.Base(path))
}

// objCorner holds the 1-based, already resolved indices of one face corner.
// Zero means the attribute is absent.
type objCorner struct {
	v, vt, vn int
}

// ReadOBJ parses OBJ text from r.
func ReadOBJ(r io.Reader, name string) (*Mesh, error) {
	var (
		positions []math3d.Vec3
		uvs       []math3d.Vec2
		normals   []math3d.Vec3
	)
	mesh := NewMesh(name)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			positions = append(positions, math3d.V3(v[0], v[1], v[2]))
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			uvs = append(uvs, math3d.V2(v[0], v[1]))
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", line, err)
			}
			normals = append(normals, math3d.V3(v[0], v[1], v[2]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs 3 corners, got %d", line, len(fields)-1)
			}
			corners := make([]objCorner, len(fields)-1)
			for i, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", line, err)
				}
				corners[i] = c
			}
			for i := 1; i+1 < len(corners); i++ {
				mesh.Triangles = append(mesh.Triangles,
					objTriangle(positions, uvs, normals, corners[0], corners[i], corners[i+1]))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func objTriangle(positions []math3d.Vec3, uvs []math3d.Vec2, normals []math3d.Vec3, cs ...objCorner) Triangle {
	var t Triangle
	for i, c := range cs {
		t.Pos[i] = positions[c.v-1]
		if c.vt > 0 {
			t.UV[i] = uvs[c.vt-1]
		}
		if c.vn > 0 {
			t.Normal[i] = normals[c.vn-1]
		}
	}
	return t
}

// parseCorner reads v, v/vt, v//vn or v/vt/vn. Negative indices count
// back from the most recent element.
func parseCorner(tok string, nv, nvt, nvn int) (objCorner, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("bad face corner %q", tok)
	}

	var c objCorner
	var err error
	if c.v, err = resolveIndex(parts[0], nv); err != nil || c.v == 0 {
		return objCorner{}, fmt.Errorf("bad vertex index in %q", tok)
	}
	if len(parts) > 1 {
		if c.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return objCorner{}, fmt.Errorf("bad texture index in %q", tok)
		}
	}
	if len(parts) > 2 {
		if c.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return objCorner{}, fmt.Errorf("bad normal index in %q", tok)
		}
	}
	return c, nil
}

// resolveIndex turns an OBJ index into a 1-based position in a list of
// length n. An empty field resolves to 0.
func resolveIndex(s string, n int) (int, error) {
	if s == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = n + 1 + i
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("index %s out of range [1, %d]", s, n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("need %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", fields[i], err)
		}
		out[i] = v
	}
	return out, nil
}
