// Package shape classifies a simplified sketch polygon into a basic geometric shape.
package shape

// Label is the result of classifying a sketch.
type Label string

const (
	Triangle  Label = "Triangle"
	Square    Label = "Square"
	Rectangle Label = "Rectangle"
	Circle    Label = "Circle"
	Arrow     Label = "Arrow"
	// Unknown is reported for degenerate polygons with fewer than three vertices.
	Unknown Label = "Unknown shape"
	// NoShape is reported when the canvas holds no closed boundary at all.
	NoShape Label = "No shape detected"
)

// Labels returns every label in a stable order.
func Labels() []Label {
	return []Label{Triangle, Square, Rectangle, Circle, Arrow, Unknown, NoShape}
}

// ParseLabel returns the label matching s.
func ParseLabel(s string) (Label, bool) {
	for _, l := range Labels() {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

func (l Label) String() string {
	return string(l)
}
