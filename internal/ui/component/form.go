package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// FieldType distinguishes text, numeric and select inputs.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumber
	FieldSelect
)

// field is one input row. Text and number fields wrap a textinput
// model; selects keep an option cursor instead.
type field struct {
	name      string
	label     string
	kind      FieldType
	required  bool
	options   []string
	optionIdx int
	validate  func(string) error
	errMsg    string
	input     textinput.Model
}

// value returns the current content of the field.
func (fd *field) value() string {
	if fd.kind == FieldSelect {
		if len(fd.options) == 0 {
			return ""
		}
		return fd.options[fd.optionIdx]
	}
	return fd.input.Value()
}

func (fd *field) setValue(v string) {
	if fd.kind == FieldSelect {
		for i, opt := range fd.options {
			if opt == v {
				fd.optionIdx = i
				return
			}
		}
		return
	}
	fd.input.SetValue(v)
}

// check records and returns the validation result for the field.
func (fd *field) check() bool {
	fd.errMsg = ""

	v := fd.value()
	if fd.required && strings.TrimSpace(v) == "" {
		fd.errMsg = "This field is required"
		return false
	}
	if fd.validate != nil {
		if err := fd.validate(v); err != nil {
			fd.errMsg = err.Error()
			return false
		}
	}
	return true
}

type formStyles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	idle    lipgloss.Style
	focused lipgloss.Style
	invalid lipgloss.Style
}

func newFormStyles(p style.Palette) formStyles {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Background(p.BackgroundAlt).Foreground(p.Text).Padding(0, 1)

	return formStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.Secondary).MarginBottom(1),
		label:   lipgloss.NewStyle().Bold(true).Foreground(p.Text).MarginRight(1),
		idle:    box.BorderForeground(p.TextMuted),
		focused: box.BorderForeground(p.Primary),
		invalid: lipgloss.NewStyle().Foreground(p.Error).MarginTop(1),
	}
}

// Form is a vertical stack of labelled input fields with tab focus
// cycling, per-field validation and builder-style configuration.
type Form struct {
	title  string
	fields []field
	focus  int
	width  int
	st     formStyles
}

// NewForm starts an empty form with the default palette.
func NewForm() *Form {
	return &Form{st: newFormStyles(style.DefaultPalette())}
}

// lookup finds a field by name.
func (f *Form) lookup(name string) *field {
	for i := range f.fields {
		if f.fields[i].name == name {
			return &f.fields[i]
		}
	}
	return nil
}

// SetTitle sets the heading rendered above the fields.
func (f *Form) SetTitle(title string) *Form {
	f.title = title
	return f
}

// AddField appends an input row. Number fields default their
// placeholder to zero.
func (f *Form) AddField(name string, kind FieldType, label string, required bool, placeholder string) *Form {
	in := textinput.New()
	in.Width = 40
	in.Placeholder = placeholder
	if kind == FieldNumber && placeholder == "" {
		in.Placeholder = "0"
	}

	f.fields = append(f.fields, field{
		name:     name,
		label:    label,
		kind:     kind,
		required: required,
		input:    in,
	})

	// The first field starts focused.
	if len(f.fields) == 1 {
		f.fields[0].input.Focus()
	}
	return f
}

// SetValue overwrites the content of the named field.
func (f *Form) SetValue(name, value string) *Form {
	if fd := f.lookup(name); fd != nil {
		fd.setValue(value)
	}
	return f
}

// SetOptions swaps the choices of a select field.
func (f *Form) SetOptions(name string, options []string) *Form {
	if fd := f.lookup(name); fd != nil && fd.kind == FieldSelect {
		fd.options = options
		fd.optionIdx = 0
	}
	return f
}

// SetValidation attaches a validator run by Validate.
func (f *Form) SetValidation(name string, validation func(string) error) *Form {
	if fd := f.lookup(name); fd != nil {
		fd.validate = validation
	}
	return f
}

// SetWidth resizes every text input to the form width.
func (f *Form) SetWidth(width int) *Form {
	f.width = width
	if inner := width - 4; inner > 10 {
		for i := range f.fields {
			f.fields[i].input.Width = inner
		}
	}
	return f
}

// Init starts the cursor blink.
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes keys to focus moves, option spins or the focused
// input.
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}

	cur := &f.fields[f.focus]

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "tab":
			f.shiftFocus(1)
			return f, nil

		case "shift+tab":
			f.shiftFocus(-1)
			return f, nil

		case "enter":
			// Enter cycles select options, otherwise advances.
			if cur.kind == FieldSelect {
				f.spin(cur, 1)
			} else {
				f.shiftFocus(1)
			}
			return f, nil

		case "up":
			if cur.kind == FieldSelect {
				f.spin(cur, -1)
				return f, nil
			}

		case "down":
			if cur.kind == FieldSelect {
				f.spin(cur, 1)
				return f, nil
			}
		}
	}

	if cur.kind == FieldSelect {
		return f, nil
	}

	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		cur.errMsg = "" // typing clears the last validation error
	}
	return f, cmd
}

// shiftFocus moves focus by delta fields, wrapping at both ends.
func (f *Form) shiftFocus(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)

	if next := &f.fields[f.focus]; next.kind != FieldSelect {
		next.input.Focus()
	}
}

// spin steps a select field through its options.
func (f *Form) spin(fd *field, delta int) {
	if n := len(fd.options); n > 0 {
		fd.optionIdx = (fd.optionIdx + delta + n) % n
		fd.errMsg = ""
	}
}

// View stacks the title and every field.
func (f *Form) View() string {
	if len(f.fields) == 0 {
		return "(form has no fields)"
	}

	rows := make([]string, 0, len(f.fields)+1)
	if f.title != "" {
		rows = append(rows, f.st.title.Render(f.title))
	}
	for i := range f.fields {
		rows = append(rows, f.renderField(i))
	}
	return strings.Join(rows, "\n")
}

// renderField draws one label, input box and error line.
func (f *Form) renderField(i int) string {
	fd := &f.fields[i]

	label := fd.label
	if fd.required {
		label += " *"
	}

	box := f.st.idle
	if i == f.focus {
		box = f.st.focused
	}

	body := fd.input.View()
	if fd.kind == FieldSelect {
		body = fd.value()
		if i == f.focus {
			body = "◀ " + body + " ▶"
		}
	}

	out := f.st.label.Render(label) + "\n" + box.Render(body)
	if fd.errMsg != "" {
		out += "\n" + f.st.invalid.Render("⚠ "+fd.errMsg)
	}
	if i < len(f.fields)-1 {
		out += "\n"
	}
	return out
}

// Validate runs every field check and reports whether all passed.
func (f *Form) Validate() bool {
	ok := true
	for i := range f.fields {
		if !f.fields[i].check() {
			ok = false
		}
	}
	return ok
}

// Values snapshots every field into a name-to-value map.
func (f *Form) Values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i := range f.fields {
		values[f.fields[i].name] = f.fields[i].value()
	}
	return values
}

// Value reads one field's current content.
func (f *Form) Value(name string) string {
	if fd := f.lookup(name); fd != nil {
		return fd.value()
	}
	return ""
}

// FieldError returns the validation error recorded for a field, if any.
func (f *Form) FieldError(name string) string {
	if fd := f.lookup(name); fd != nil {
		return fd.errMsg
	}
	return ""
}

// Reset clears every field and focuses the first one.
func (f *Form) Reset() *Form {
	for i := range f.fields {
		fd := &f.fields[i]
		fd.input.SetValue("")
		fd.input.Blur()
		fd.optionIdx = 0
		fd.errMsg = ""
	}

	f.focus = 0
	if len(f.fields) > 0 && f.fields[0].kind != FieldSelect {
		f.fields[0].input.Focus()
	}
	return f
}
