package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/swingsim/internal/config"
)

type formField struct {
	name   string
	unit   string
	bounds *config.Bounds
	step   float64
	ref    func(*config.FormValues) *float64
}

var formFields = []formField{
	{"length", "m", &config.LengthBounds, 0.1, func(f *config.FormValues) *float64 { return &f.Length }},
	{"mass", "kg", &config.MassBounds, 1, func(f *config.FormValues) *float64 { return &f.Mass }},
	{"angle", "deg", &config.AngleBounds, 1, func(f *config.FormValues) *float64 { return &f.AngleDegrees }},
	{"wind", "", &config.WindBounds, 1, func(f *config.FormValues) *float64 { return &f.WindForce }},
	{"drag", "", nil, 0.01, func(f *config.FormValues) *float64 { return &f.DragCoeff }},
	{"velocity", "rad/s", nil, 0.1, func(f *config.FormValues) *float64 { return &f.InitialVelocity }},
	{"dt", "s", nil, 0.001, func(f *config.FormValues) *float64 { return &f.Dt }},
	{"duration", "s", nil, 10, func(f *config.FormValues) *float64 { return &f.Duration }},
}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formQuit
)

// paramForm edits FormValues. Bounded fields are clamped on every change,
// the others are checked by the engine when the run starts.
type paramForm struct {
	values  config.FormValues
	cursor  int
	editing bool
	editBuf string
	err     error
}

func newParamForm(values config.FormValues) paramForm {
	return paramForm{values: values.Clamped()}
}

func (f paramForm) display(i int) string {
	field := formFields[i]
	v := *field.ref(&f.values)
	if field.bounds != nil {
		_, text := config.ClampAndSync(v, *field.bounds)
		return text
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (f *paramForm) set(i int, v float64) {
	field := formFields[i]
	if field.bounds != nil {
		v, _ = config.ClampAndSync(v, *field.bounds)
	}
	*field.ref(&f.values) = v
}

func (f *paramForm) commit() {
	field := formFields[f.cursor]
	ptr := field.ref(&f.values)
	if field.bounds != nil {
		*ptr, _ = config.ParseAndSync(f.editBuf, *ptr, *field.bounds)
	} else if v, err := strconv.ParseFloat(strings.TrimSpace(f.editBuf), 64); err == nil {
		*ptr = v
	}
	f.editing, f.editBuf = false, ""
}

func (f paramForm) update(msg tea.KeyMsg) (paramForm, formAction) {
	if f.editing {
		switch msg.String() {
		case "enter":
			f.commit()
		case "esc":
			f.editing, f.editBuf = false, ""
		case "backspace":
			if len(f.editBuf) > 0 {
				f.editBuf = f.editBuf[:len(f.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					f.editBuf += string(c)
				}
			}
		}
		return f, formNone
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return f, formQuit
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j", "tab":
		if f.cursor < len(formFields)-1 {
			f.cursor++
		}
	case "enter", " ":
		f.editing, f.editBuf = true, f.display(f.cursor)
	case "left", "h":
		f.set(f.cursor, *formFields[f.cursor].ref(&f.values)-formFields[f.cursor].step)
	case "right", "l":
		f.set(f.cursor, *formFields[f.cursor].ref(&f.values)+formFields[f.cursor].step)
	case "s":
		return f, formSubmit
	}
	return f, formNone
}

func (f paramForm) view() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("SWING SIMULATOR") + "\n    " + subtleStyle.Render("damped swing with air resistance") + "\n    " + subtleStyle.Render("─────────────────────────") + "\n\n")

	for i, field := range formFields {
		valStr := f.display(i)
		if f.editing && i == f.cursor {
			valStr = f.editBuf + "_"
		}
		valStr = fmt.Sprintf("%10s %-5s", valStr, field.unit)
		rng := ""
		if field.bounds != nil {
			rng = fmt.Sprintf("[%g, %g]", field.bounds.Min, field.bounds.Max)
		}

		if i == f.cursor {
			b.WriteString(fmt.Sprintf("    %s %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", field.name)), editStyle.Render(valStr), subtleStyle.Render(rng)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", field.name)), idleStyle.Render(valStr), subtleStyle.Render(rng)))
		}
	}

	if f.err != nil {
		b.WriteString("\n    " + errorStyle.Render(f.err.Error()) + "\n")
	}

	b.WriteString("\n    " + keyHint("j/k", "select") + keyHint("h/l", "adjust") + keyHint("enter", "edit") + keyHint("s", "simulate") + keyHint("q", "quit") + "\n")
	return b.String()
}
