package renderer

import "strings"

// WrapText parte el texto en líneas de a lo sumo n caracteres con un corte
// voraz por palabras. Una palabra más larga que n se parte a lo duro. Es una
// heurística por cantidad de caracteres, no una medición tipográfica real.
func WrapText(text string, n int) []string {
	if text == "" {
		return nil
	}

	var lines []string
	cur := ""

	for _, w := range strings.Split(text, " ") {
		if runeLen(cur)+runeLen(w)+1 <= n {
			cur = strings.TrimSpace(cur + " " + w)
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = w
		for runeLen(cur) > n {
			r := []rune(cur)
			lines = append(lines, string(r[:n]))
			cur = string(r[n:])
		}
	}

	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func runeLen(s string) int {
	return len([]rune(s))
}
