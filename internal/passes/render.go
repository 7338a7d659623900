package passes

import "fmt"

// Describe renders one pass as the human-readable sentence the CLI prints.
func (p Pass) Describe() string {
	return fmt.Sprintf("The ISS will pass overhead on %s at %s for %d seconds.", p.Date, p.Time, p.Duration)
}

// DescribePeople renders the headcount sentence followed by one line per
// crew member.
func DescribePeople(number int64, people []Person) []string {
	lines := make([]string, 0, len(people)+1)
	lines = append(lines, fmt.Sprintf("There are %d people in space right now.", number))
	for _, p := range people {
		lines = append(lines, fmt.Sprintf("%s is aboard the %s.", p.Name, p.Craft))
	}
	return lines
}
