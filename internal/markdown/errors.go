// errors.go — error kinds for the Markdown conversation codec.
package markdown

import "fmt"

// ErrInvalidFormat is returned when a document contains no interaction
// blocks at all.
var ErrInvalidFormat = fmt.Errorf("markdown: no interaction blocks found")

// InvalidInteractionNumberError is returned when an interaction heading's
// ordinal fails to parse as a u8.
type InvalidInteractionNumberError struct {
	Raw string
}

func (e *InvalidInteractionNumberError) Error() string {
	return fmt.Sprintf("markdown: invalid interaction number %q", e.Raw)
}

// InvalidStatusCodeError is returned when a response-body heading's status
// code fails to parse as a u16.
type InvalidStatusCodeError struct {
	Raw string
}

func (e *InvalidStatusCodeError) Error() string {
	return fmt.Sprintf("markdown: invalid status code %q", e.Raw)
}

// DifferenceLocation identifies which half of an interaction a Difference
// was found in.
type DifferenceLocation int

const (
	// LocationRequest identifies the request half of an interaction.
	LocationRequest DifferenceLocation = iota
	// LocationResponse identifies the response half of an interaction.
	LocationResponse
)

func (l DifferenceLocation) String() string {
	if l == LocationRequest {
		return "Request"
	}
	return "Response"
}

// BodyDifference reports the first differing character between two bodies.
type BodyDifference struct {
	Location   DifferenceLocation
	Line       int
	Column     int
	OldContext string
	NewContext string
}

func (d *BodyDifference) Error() string {
	return fmt.Sprintf("%s bodies differ at line %d, column %d. Old: %q. New: %q.",
		d.Location, d.Line, d.Column, d.OldContext, d.NewContext)
}

// HeaderDifference reports the first header-map disagreement between two
// interactions.
type HeaderDifference struct {
	Location DifferenceLocation
	Name     string
	Old      string
	New      string
}

func (d *HeaderDifference) Error() string {
	return fmt.Sprintf("%s headers differ. old - %q: %q, new - %q: %q.",
		d.Location, d.Name, d.Old, d.Name, d.New)
}
