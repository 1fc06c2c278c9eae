package shell

// Layout is a snapshot of the dock arrangement: which widgets sit in which
// area, in order, and which main-area widget is current. It is the value the
// application's restored future settles with.
type Layout struct {
	Current string            `yaml:"current" mapstructure:"current"`
	Areas   map[Area][]string `yaml:"areas" mapstructure:"areas"`
}

// Empty reports whether the layout carries no placement information.
func (l Layout) Empty() bool {
	return l.Current == "" && len(l.Areas) == 0
}
