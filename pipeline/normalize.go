package pipeline

import (
	"regexp"
	"strings"
)

var (
	// assemblyHeaderRe finds the assembly token of a raw QTY header, which
	// renders as "<token>\nQTY" before newline cleanup.
	assemblyHeaderRe = regexp.MustCompile(`(\w+)\nQTY`)

	// groupRadixRe matches the leading group radix of an assembly name:
	// one uppercase letter and two digits.
	groupRadixRe = regexp.MustCompile(`^[A-Z]\d{2}`)

	// itemCodeRe is the fixed shape of a TPENG item code: 2 digits,
	// 4 uppercase letters, 6 digits.
	itemCodeRe = regexp.MustCompile(`\b\d{2}[A-Z]{4}\d{6}\b`)
)

// NoAssembliesSentinel marks a page whose headers yielded no assembly
// candidates. Informational only; such a page is still processed.
const NoAssembliesSentinel = "NoAssemblies"

// DeriveGroupName scans raw (pre-cleanup) headers for assembly tokens and
// derives the page's group name: the longest common prefix of the leading
// radixes of every candidate matching the group shape. A page without
// candidates has no group name and the sentinel assembly list.
func DeriveGroupName(rawHeaders []string) (string, []string) {
	var candidates []string
	for _, h := range rawHeaders {
		if h == "" {
			continue
		}
		for _, m := range assemblyHeaderRe.FindAllStringSubmatch(h, -1) {
			candidates = append(candidates, m[1])
		}
	}

	groupName := ""
	for _, c := range candidates {
		radix := groupRadixRe.FindString(c)
		if radix == "" {
			continue
		}
		if groupName == "" {
			groupName = radix
		} else {
			groupName = commonPrefix(groupName, radix)
		}
	}

	if len(candidates) == 0 {
		return groupName, []string{NoAssembliesSentinel}
	}
	return groupName, candidates
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// SplitItemCodeColumn splits the composite description column of a page
// table into independent BILL OF MATERIAL and TPENG ITEM CODE columns. The
// split happens only when at least one cell contains a well-formed item
// code; otherwise the table is left untouched (codes may live in their own
// column already). Extracted codes overwrite the item-code column; cells
// without a code keep whatever that column already held.
func SplitItemCodeColumn(t *PageTable) {
	descCol := -1
	for i, h := range t.Headers {
		if strings.Contains(h, ColDescription) {
			descCol = i
			break
		}
	}
	if descCol == -1 {
		return
	}

	found := false
	for _, row := range t.Rows {
		if itemCodeRe.MatchString(row[descCol]) {
			found = true
			break
		}
	}
	if !found {
		return
	}

	codeCol := t.Col(ColItemCode)
	if codeCol == -1 {
		t.Headers = append(t.Headers, ColItemCode)
		for r := range t.Rows {
			t.Rows[r] = append(t.Rows[r], "")
		}
		codeCol = len(t.Headers) - 1
	}

	t.Headers[descCol] = ColDescription
	for r, row := range t.Rows {
		cell := row[descCol]
		code := itemCodeRe.FindString(cell)
		if code == "" {
			continue
		}
		t.Rows[r][descCol] = strings.TrimSpace(itemCodeRe.Split(cell, 2)[0])
		t.Rows[r][codeCol] = code
	}
}
