package backend

import (
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/itzKiwiSky/KAPLAYware-sub000/engine"
)

var named = map[ebiten.Key]engine.Key{
	ebiten.KeyArrowLeft:  engine.KeyLeft,
	ebiten.KeyArrowRight: engine.KeyRight,
	ebiten.KeyArrowUp:    engine.KeyUp,
	ebiten.KeyArrowDown:  engine.KeyDown,
	ebiten.KeyA:          engine.KeyLeft,
	ebiten.KeyD:          engine.KeyRight,
	ebiten.KeyW:          engine.KeyUp,
	ebiten.KeyS:          engine.KeyDown,
	ebiten.KeySpace:      engine.KeySpace,
	ebiten.KeyEnter:      engine.KeyEnter,
	ebiten.KeyEscape:     engine.KeyEscape,
}

var mouseButtons = map[ebiten.MouseButton]engine.MouseButton{
	ebiten.MouseButtonLeft:   engine.MouseLeft,
	ebiten.MouseButtonRight:  engine.MouseRight,
	ebiten.MouseButtonMiddle: engine.MouseMiddle,
}

// keyNames maps an ebiten key to the engine keys it produces. WASD also
// report their letters so games can bind either.
func keyNames(k ebiten.Key) []engine.Key {
	var out []engine.Key
	if n, ok := named[k]; ok {
		out = append(out, n)
	}
	s := k.String()
	if len(s) == 1 || strings.HasPrefix(s, "Digit") {
		out = append(out, engine.Key(strings.ToLower(strings.TrimPrefix(s, "Digit"))))
	}
	return out
}

// Sampler reads ebiten's input state once per tick.
type Sampler struct {
	keys  []ebiten.Key
	stick float64
}

func NewSampler() *Sampler {
	return &Sampler{}
}

func (s *Sampler) Sample() engine.FrameInput {
	var in engine.FrameInput

	s.keys = inpututil.AppendPressedKeys(s.keys[:0])
	for _, k := range s.keys {
		in.Down = append(in.Down, keyNames(k)...)
		if inpututil.IsKeyJustPressed(k) {
			in.Pressed = append(in.Pressed, keyNames(k)...)
		}
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		in.Released = append(in.Released, keyNames(k)...)
	}

	x, y := ebiten.CursorPosition()
	in.Mouse = cp.Vector{X: float64(x), Y: float64(y)}
	for b, mb := range mouseButtons {
		if ebiten.IsMouseButtonPressed(b) {
			in.MouseDown = append(in.MouseDown, mb)
		}
		if inpututil.IsMouseButtonJustPressed(b) {
			in.MousePressed = append(in.MousePressed, mb)
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			in.MouseReleased = append(in.MouseReleased, mb)
		}
	}

	s.gamepad(&in)
	return in
}

const stickDeadzone = 0.2

// gamepad folds the first standard gamepad into arrow keys, space and enter.
func (s *Sampler) gamepad(in *engine.FrameInput) {
	pads := ebiten.AppendGamepadIDs(nil)
	if len(pads) == 0 {
		return
	}
	id := pads[0]

	prev := s.stick
	s.stick = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	if math.Abs(s.stick) < stickDeadzone {
		s.stick = 0
	}
	stickKey := func(v float64) engine.Key {
		if v < 0 {
			return engine.KeyLeft
		}
		return engine.KeyRight
	}
	if s.stick != 0 {
		in.Down = append(in.Down, stickKey(s.stick))
		if prev == 0 || (prev < 0) != (s.stick < 0) {
			in.Pressed = append(in.Pressed, stickKey(s.stick))
		}
	} else if prev != 0 {
		in.Released = append(in.Released, stickKey(prev))
	}

	buttons := []struct {
		b ebiten.StandardGamepadButton
		k engine.Key
	}{
		{ebiten.StandardGamepadButtonRightBottom, engine.KeySpace},
		{ebiten.StandardGamepadButtonCenterRight, engine.KeyEnter},
		{ebiten.StandardGamepadButtonLeftLeft, engine.KeyLeft},
		{ebiten.StandardGamepadButtonLeftRight, engine.KeyRight},
		{ebiten.StandardGamepadButtonLeftTop, engine.KeyUp},
		{ebiten.StandardGamepadButtonLeftBottom, engine.KeyDown},
	}
	for _, b := range buttons {
		if ebiten.IsStandardGamepadButtonPressed(id, b.b) {
			in.Down = append(in.Down, b.k)
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, b.b) {
			in.Pressed = append(in.Pressed, b.k)
		}
		if inpututil.IsStandardGamepadButtonJustReleased(id, b.b) {
			in.Released = append(in.Released, b.k)
		}
	}
}
