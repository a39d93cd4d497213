package dte

// TabPolicy selects how the output buffer renders a literal tab byte.
type TabPolicy uint8

const (
	TabNormal  TabPolicy = iota // expand to spaces
	TabControl                  // show as caret notation
	TabSpecial                  // show as a visible ">---" leader
)

// Options holds the per-buffer settings the external option-storage
// collaborator is responsible for resolving (filetype/EditorConfig/user
// config); the core only reads them.
type Options struct {
	TabWidth    int
	ExpandTab   bool
	TabPolicy   TabPolicy
	ScrollMarginV int // rows kept between cursor and viewport edge
	ScrollMarginH int // columns kept between cursor and viewport edge
	Syntax      string // name of the Syntax to attach, or "" for none
}

// DefaultOptions returns the editor's built-in defaults, applied to a
// freshly created buffer before buffer_setup resolves filetype-specific
// overrides.
func DefaultOptions() Options {
	return Options{
		TabWidth:      8,
		ExpandTab:     false,
		TabPolicy:     TabNormal,
		ScrollMarginV: 0,
		ScrollMarginH: 0,
	}
}
