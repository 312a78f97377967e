package page

// DefaultSize is the number of records per result page.
const DefaultSize = 15

// Parse reads a 1-based page number from request text. Leading digits are
// used (with an optional sign); absent, non-numeric or zero input yields 1.
// Negative numbers pass through unclamped.
func Parse(raw string) int {
	i := 0
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t' || raw[i] == '\n') {
		i++
	}
	neg := false
	if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
		neg = raw[i] == '-'
		i++
	}
	n, digits := 0, 0
	for ; i < len(raw) && raw[i] >= '0' && raw[i] <= '9'; i++ {
		if n > (1<<31)/10 {
			break
		}
		n = n*10 + int(raw[i]-'0')
		digits++
	}
	if digits == 0 || n == 0 {
		return 1
	}
	if neg {
		return -n
	}
	return n
}

// Offset returns the number of records to skip before the given page.
func Offset(page, size int) int {
	return (page - 1) * size
}

// TotalPages returns ceil(total/size). Zero records yield zero pages.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
