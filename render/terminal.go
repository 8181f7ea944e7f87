// Package render draws session snapshots to a tcell screen and reads keyboard input.
package render

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/session"
	"github.com/lixenwraith/breakout/status"
)

type screenEffect struct {
	fx    engine.Effect
	start time.Time
}

// Terminal draws snapshots and implements engine.EffectPlayer and engine.InputSource
// Draw and PlayEffect run on the tick goroutine, HandleEvent on the poll goroutine
type Terminal struct {
	mu      sync.Mutex
	screen  tcell.Screen
	status  *status.Registry
	now     func() time.Time
	effects []screenEffect

	// Input state
	horizontal float64
	heldUntil  time.Time
	launch     bool
	quit       bool
	overlay    bool
}

// NewTerminal creates a terminal over an initialized screen; reg may be nil
func NewTerminal(screen tcell.Screen, reg *status.Registry) *Terminal {
	return &Terminal{
		screen: screen,
		status: reg,
		now:    time.Now,
	}
}

// PlayEffect implements engine.EffectPlayer
func (t *Terminal) PlayEffect(fx engine.Effect) error {
	switch fx.Kind {
	case parameter.EffectBreak, parameter.EffectBounce, parameter.EffectLaunch:
	default:
		return fmt.Errorf("unknown effect kind %q", fx.Kind)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.effects) >= parameter.MaxScreenEffects {
		t.effects = t.effects[1:]
	}
	t.effects = append(t.effects, screenEffect{fx: fx, start: t.now()})
	return nil
}

// Poll implements engine.InputSource
// Launch is reported once per key press; direction holds for InputHoldDuration
func (t *Terminal) Poll() engine.InputFrame {
	t.mu.Lock()
	defer t.mu.Unlock()

	frame := engine.InputFrame{Launch: t.launch, Quit: t.quit}
	if t.now().Before(t.heldUntil) {
		frame.Horizontal = t.horizontal
	} else {
		t.horizontal = 0
	}
	t.launch = false
	return frame
}

// HandleEvent folds one screen event into the input state
func (t *Terminal) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		t.mu.Lock()
		defer t.mu.Unlock()
		switch ev.Key() {
		case tcell.KeyLeft:
			t.hold(-1)
		case tcell.KeyRight:
			t.hold(1)
		case tcell.KeyEscape, tcell.KeyCtrlC:
			t.quit = true
		case tcell.KeyTab:
			t.overlay = !t.overlay
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'a', 'h':
				t.hold(-1)
			case 'd', 'l':
				t.hold(1)
			case ' ':
				t.launch = true
			case 'q':
				t.quit = true
			}
		}
	}
}

// hold latches a direction; caller holds mu
func (t *Terminal) hold(dir float64) {
	t.horizontal = dir
	t.heldUntil = t.now().Add(parameter.InputHoldDuration)
}

// Draw renders one frame
func (t *Terminal) Draw(snap session.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.screen
	w, h := s.Size()
	bg := styleOf(RgbHUD)
	s.Fill(' ', bg)

	top := parameter.HUDRows
	vp := NewViewport(snap.Arena, w-2, h, top+1)
	vp.X = 1

	if len(snap.Walls) > 0 {
		wall := styleOf(RgbWall)
		for x := 0; x < w; x++ {
			s.SetContent(x, top, parameter.GlyphWall, nil, wall)
		}
		for y := top + 1; y < h; y++ {
			s.SetContent(0, y, parameter.GlyphWall, nil, wall)
			s.SetContent(w-1, y, parameter.GlyphWall, nil, wall)
		}
	}

	shift := snap.Camera
	for _, b := range snap.Blocks {
		glyph := rune(parameter.GlyphBlock)
		if b.Pending {
			glyph = parameter.GlyphPending
		}
		t.fillBox(vp, b.Position.Add(shift), b.Half, glyph, styleOf(b.Color))
	}
	for _, p := range snap.Paddles {
		color := RgbPaddle
		if p.Local {
			color = RgbPaddleOwn
		}
		t.fillBox(vp, p.Position.Add(shift), p.Half, parameter.GlyphPaddle, styleOf(color))
	}
	for _, b := range snap.Balls {
		x, y := vp.Cell(b.Position.Add(shift))
		if vp.Inside(x, y) {
			s.SetContent(x, y, parameter.GlyphBall, nil, styleOf(RgbBall))
		}
	}

	t.drawEffects(vp, shift)
	t.drawHUD(snap, w)
	if t.overlay && t.status != nil {
		t.drawOverlay(vp)
	}
	s.Show()
}

func (t *Terminal) fillBox(vp Viewport, center, half core.Vec2, glyph rune, style tcell.Style) {
	x0, y0, x1, y1 := vp.Span(center, half)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if vp.Inside(x, y) {
				t.screen.SetContent(x, y, glyph, nil, style)
			}
		}
	}
}

// drawEffects renders live effects and drops expired ones; caller holds mu
func (t *Terminal) drawEffects(vp Viewport, shift core.Vec2) {
	now := t.now()
	live := t.effects[:0]
	for _, e := range t.effects {
		age := now.Sub(e.start)
		if age >= parameter.EffectLifetime {
			continue
		}
		live = append(live, e)

		progress := float64(age) / float64(parameter.EffectLifetime)
		style := styleOf(RgbBackground.Blend(e.fx.Color, 1-progress))
		cx, cy := vp.Cell(e.fx.Position.Add(shift))

		switch e.fx.Kind {
		case parameter.EffectBreak:
			// Burst ring growing with age
			radius := max(1, int(math.Round(e.fx.Scale*2*progress+1)))
			for i := range 8 {
				angle := float64(i) * math.Pi / 4
				x := cx + int(math.Round(math.Cos(angle)*float64(radius)*2))
				y := cy - int(math.Round(math.Sin(angle)*float64(radius)))
				if vp.Inside(x, y) {
					t.screen.SetContent(x, y, parameter.GlyphBreak, nil, style)
				}
			}
		case parameter.EffectBounce:
			if vp.Inside(cx, cy) {
				t.screen.SetContent(cx, cy, parameter.GlyphBounce, nil, style)
			}
		case parameter.EffectLaunch:
			if vp.Inside(cx, cy-1) {
				t.screen.SetContent(cx, cy-1, parameter.GlyphLaunch, nil, style)
			}
		}
	}
	t.effects = live
}

func (t *Terminal) drawHUD(snap session.Snapshot, w int) {
	state := "waiting"
	if snap.Running {
		state = "running"
	}
	left := fmt.Sprintf(" %s  %s", snap.Role, state)
	right := fmt.Sprintf("SCORE %08d ", snap.Score)

	t.drawText(0, 0, left, styleOf(RgbHUD))
	t.drawText(max(w-len(right), len(left)+1), 0, right, styleOf(RgbScore))
}

func (t *Terminal) drawOverlay(vp Viewport) {
	style := styleOf(RgbOverlay)
	for i, line := range t.status.Lines() {
		y := vp.Y + i
		if y >= vp.Y+vp.Height {
			return
		}
		t.drawText(vp.X+1, y, line, style)
	}
}

func (t *Terminal) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
