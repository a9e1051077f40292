package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/softrender/internal/logger"
	"github.com/taigrr/softrender/pkg/render"
)

const (
	orbitImpulse = 0.08 // radians per frame added by one key press
	zoomStep     = 1.1
)

// orbitAxis carries an angular velocity that a critically damped spring
// eases back to zero.
type orbitAxis struct {
	velocity float64
	accel    float64 // spring velocity of velocity
	spring   harmonica.Spring
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// step returns the angle to turn this frame and decays the velocity.
func (a *orbitAxis) step() float64 {
	d := a.velocity
	a.velocity, a.accel = a.spring.Update(a.velocity, a.accel, 0)
	return d
}

// runPreview renders the scene into the terminal every frame until the
// user quits or ctx is cancelled.
func runPreview(ctx context.Context, sc *scene) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	fps := sc.cfg.Preview.FPS
	cam := sc.camera()
	yaw, pitch := newOrbitAxis(fps), newOrbitAxis(fps)
	// Two framebuffer rows per terminal cell.
	fb := render.NewFramebuffer(width, height*2)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var frames int
	var total render.RasterStats
	defer func() {
		logger.Info("preview closed", zap.Int("frames", frames), zap.Int("fragments", total.Fragments))
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-term.Events():
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = render.NewFramebuffer(width, height*2)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("esc", "q", "ctrl+c"):
					return nil
				case ev.MatchString("a", "left"):
					yaw.velocity -= orbitImpulse
				case ev.MatchString("d", "right"):
					yaw.velocity += orbitImpulse
				case ev.MatchString("w", "up"):
					pitch.velocity += orbitImpulse
				case ev.MatchString("s", "down"):
					pitch.velocity -= orbitImpulse
				case ev.MatchString("+", "="):
					cam.Zoom(1 / zoomStep)
				case ev.MatchString("-"):
					cam.Zoom(zoomStep)
				case ev.MatchString("x"):
					sc.wireframe = !sc.wireframe
				case ev.MatchString("g"):
					sc.axes = !sc.axes
				case ev.MatchString("r"):
					cam = sc.camera()
					yaw, pitch = newOrbitAxis(fps), newOrbitAxis(fps)
				}
			}

		case <-ticker.C:
			cam.Orbit(yaw.step(), pitch.step())
			stats, err := sc.render(fb, cam)
			if err != nil {
				return err
			}
			total.Add(stats)
			frames++

			// The framebuffer has a bottom-left origin, the terminal a
			// top-left one.
			fb.FlipVertically()
			fb.Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
