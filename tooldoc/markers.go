package tooldoc

import (
	"regexp"
	"strings"
)

// Markers names the literal words that structure a documentation block.
type Markers struct {
	// Interface introduces a block: "<Interface>: <bareName>".
	Interface string `mapstructure:"interface" yaml:"interface"`
	// Description labels the one-line summary: "<Description>: <text>".
	Description string `mapstructure:"description" yaml:"description"`
	// InputParams heads the parameter table.
	InputParams string `mapstructure:"input_params" yaml:"input_params"`
	// NameHeaders are first-column header cells of a parameter table.
	NameHeaders []string `mapstructure:"name_headers" yaml:"name_headers"`
	// TypeHeaders are second-column header cells of a parameter table.
	TypeHeaders []string `mapstructure:"type_headers" yaml:"type_headers"`
	// Extension selects document files; other files are ignored.
	Extension string `mapstructure:"extension" yaml:"extension"`
}

// DefaultMarkers returns the akshare documentation conventions.
func DefaultMarkers() Markers {
	return Markers{
		Interface:   "接口",
		Description: "描述",
		InputParams: "输入参数",
		NameHeaders: []string{"名称", "name"},
		TypeHeaders: []string{"类型", "type"},
		Extension:   ".md",
	}
}

func (m Markers) withDefaults() Markers {
	def := DefaultMarkers()
	if m.Interface == "" {
		m.Interface = def.Interface
	}
	if m.Description == "" {
		m.Description = def.Description
	}
	if m.InputParams == "" {
		m.InputParams = def.InputParams
	}
	if len(m.NameHeaders) == 0 {
		m.NameHeaders = def.NameHeaders
	}
	if len(m.TypeHeaders) == 0 {
		m.TypeHeaders = def.TypeHeaders
	}
	if m.Extension == "" {
		m.Extension = def.Extension
	}
	return m
}

var (
	bareNamePattern  = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)
	paramNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	markupStripper   = strings.NewReplacer("*", "", "`", "")
)

// cleanLine removes inline emphasis and leading markdown decoration so
// "## **接口:** `foo`" reads as "接口: foo".
func cleanLine(line string) string {
	line = markupStripper.Replace(line)
	return strings.TrimSpace(strings.TrimLeft(line, "#> \t-"))
}

// labeled reports whether line is "<label>: rest" (ASCII or fullwidth
// colon) and returns rest trimmed.
func labeled(line, label string) (string, bool) {
	line = cleanLine(line)
	if !strings.HasPrefix(line, label) {
		return "", false
	}
	rest := strings.TrimLeft(line[len(label):], " \t")
	switch {
	case strings.HasPrefix(rest, ":"):
		rest = rest[len(":"):]
	case strings.HasPrefix(rest, "："):
		rest = rest[len("："):]
	default:
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func (m Markers) isInputParamsLine(line string) bool {
	return strings.HasSuffix(cleanLine(line), m.InputParams)
}

func (m Markers) isHeaderRow(cells []string) bool {
	if len(cells) >= 2 && containsFold(m.TypeHeaders, cells[1]) {
		return true
	}
	return containsFold(m.NameHeaders, cells[0]) && (len(cells) < 2 || cells[1] == "")
}

func containsFold(words []string, cell string) bool {
	for _, w := range words {
		if strings.EqualFold(w, cell) {
			return true
		}
	}
	return false
}

func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func splitRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	s = strings.TrimSuffix(s, "|")
	cells := strings.Split(s, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	sawDash := false
	for _, c := range cells {
		for _, r := range c {
			switch r {
			case '-':
				sawDash = true
			case ':', ' ':
			default:
				return false
			}
		}
	}
	return sawDash
}
