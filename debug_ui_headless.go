package dungeon

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// DebugUI is an immediate-mode widget toolkit. Widgets draw the current value
// and return true when the user changed it this frame.
type DebugUI interface {
	NewFrame()
	Window(title string, contents func())
	Label(text string)
	Separator()
	// SliderFloat and DragFloat clamp to [min, max]; DragFloat with min == max
	// is unbounded.
	SliderFloat(label string, v *float32, min, max float32) bool
	DragFloat(label string, v *float32, min, max float32) bool
	Checkbox(label string, v *bool) bool
	ColorEdit(label string, c *[4]float32) bool
	RadioButton(label string, active bool) bool
	Button(label string) bool
}

// HeadlessUI draws into text lines and takes user edits from a queue. Edits
// are addressed as "Window/Label" and consumed by the next matching widget.
type HeadlessUI struct {
	lines   []string
	windows []string
	current string
	edits   map[string]any
}

func NewHeadlessUI() *HeadlessUI {
	return &HeadlessUI{edits: make(map[string]any)}
}

// Set queues a value for a slider, drag, checkbox or colour widget.
func (ui *HeadlessUI) Set(window, label string, value any) {
	ui.edits[window+"/"+label] = value
}

// Click queues a press of a button or radio button.
func (ui *HeadlessUI) Click(window, label string) {
	ui.edits[window+"/"+label] = true
}

func (ui *HeadlessUI) Lines() []string {
	return append([]string(nil), ui.lines...)
}

func (ui *HeadlessUI) Windows() []string {
	return append([]string(nil), ui.windows...)
}

// Text is the frame rendered as one string.
func (ui *HeadlessUI) Text() string {
	return strings.Join(ui.lines, "\n")
}

func (ui *HeadlessUI) NewFrame() {
	ui.lines = ui.lines[:0]
	ui.windows = ui.windows[:0]
}

func (ui *HeadlessUI) Window(title string, contents func()) {
	ui.windows = append(ui.windows, title)
	ui.lines = append(ui.lines, "+-- "+title+" --+")
	prev := ui.current
	ui.current = title
	contents()
	ui.current = prev
}

func (ui *HeadlessUI) Label(text string) {
	ui.lines = append(ui.lines, text)
}

func (ui *HeadlessUI) Separator() {
	ui.lines = append(ui.lines, "----")
}

func (ui *HeadlessUI) take(label string) (any, bool) {
	key := ui.current + "/" + label
	v, ok := ui.edits[key]
	if ok {
		delete(ui.edits, key)
	}
	return v, ok
}

func (ui *HeadlessUI) takeFloat(label string) (float32, bool) {
	v, ok := ui.take(label)
	if !ok {
		return 0, false
	}
	switch f := v.(type) {
	case float32:
		return f, true
	case float64:
		return float32(f), true
	case int:
		return float32(f), true
	}
	return 0, false
}

func (ui *HeadlessUI) SliderFloat(label string, v *float32, min, max float32) bool {
	return ui.floatWidget(label, v, min, max)
}

func (ui *HeadlessUI) DragFloat(label string, v *float32, min, max float32) bool {
	return ui.floatWidget(label, v, min, max)
}

func (ui *HeadlessUI) floatWidget(label string, v *float32, min, max float32) bool {
	changed := false
	if f, ok := ui.takeFloat(label); ok {
		if min != max {
			f = mgl32.Clamp(f, min, max)
		}
		changed = f != *v
		*v = f
	}
	ui.lines = append(ui.lines, fmt.Sprintf("%s: %.2f", label, *v))
	return changed
}

func (ui *HeadlessUI) Checkbox(label string, v *bool) bool {
	changed := false
	if edit, ok := ui.take(label); ok {
		if b, ok := edit.(bool); ok && b != *v {
			*v = b
			changed = true
		}
	}
	mark := " "
	if *v {
		mark = "x"
	}
	ui.lines = append(ui.lines, fmt.Sprintf("[%s] %s", mark, label))
	return changed
}

func (ui *HeadlessUI) ColorEdit(label string, c *[4]float32) bool {
	changed := false
	if edit, ok := ui.take(label); ok {
		if col, ok := edit.([4]float32); ok && col != *c {
			*c = col
			changed = true
		}
	}
	rgba := FloatToColor(*c)
	ui.lines = append(ui.lines, fmt.Sprintf("%s: #%02X%02X%02X%02X", label, rgba.R, rgba.G, rgba.B, rgba.A))
	return changed
}

func (ui *HeadlessUI) RadioButton(label string, active bool) bool {
	_, clicked := ui.take(label)
	mark := " "
	if active {
		mark = "*"
	}
	ui.lines = append(ui.lines, fmt.Sprintf("(%s) %s", mark, label))
	return clicked
}

func (ui *HeadlessUI) Button(label string) bool {
	_, clicked := ui.take(label)
	ui.lines = append(ui.lines, "< "+label+" >")
	return clicked
}
