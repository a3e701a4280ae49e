package pkg

import "fmt"

// FormatMinSec formats seconds as minutes:seconds, e.g. 1500 -> "25:00".
// Minutes are not folded into hours.
func FormatMinSec(seconds int64) string {
	return fmt.Sprintf("%d:%02d", floorDiv(seconds, 60), floorMod(seconds, 60))
}

// FormatHMS formats seconds as h:mm:ss, e.g. 6300 -> "1:45:00".
func FormatHMS(seconds int64) string {
	h := floorDiv(seconds, 3600)
	rest := floorMod(seconds, 3600)
	return fmt.Sprintf("%d:%02d:%02d", h, rest/60, rest%60)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
