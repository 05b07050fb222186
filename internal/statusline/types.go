package statusline

// Fragments holds the output of every builder for one render. Empty files
// and cost fragments are left out of the line.
type Fragments struct {
	Directory string
	Git       string
	Files     string
	Model     string
	Context   string
	Cost      string
}
