package lyrics

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// WordsPerLine is the default number of words after which ExportELRC starts
// a new line at the next timed word.
const WordsPerLine = 10

// ExportELRC renders s in the enhanced LRC format with the default line
// length. See ExportELRCLines.
func ExportELRC(s *Sequence) string {
	return ExportELRCLines(s, WordsPerLine)
}

// ExportELRCLines renders s in the enhanced LRC format.
//
// The sequence carries no line information, so a line is started at the
// first word and afterwards whenever wordsPerLine words have been written
// and the current word is timed; untimed words never break a line. Each
// line opens with a [mm:ss.mmm] tag holding its first word's time (0 when
// untimed) and every further timed word is preceded by an inline <mm:ss.mmm>
// tag. Each line, the first included, is preceded by a newline.
func ExportELRCLines(s *Sequence, wordsPerLine int) string {
	var sb strings.Builder
	inLine := 0
	for _, w := range s.words {
		if inLine == 0 || (inLine >= wordsPerLine && w.Time != nil) {
			inLine = 0
			at := 0.0
			if w.Time != nil {
				at = *w.Time
			}
			fmt.Fprintf(&sb, "\n[%s]", FormatTimer(at, false))
		} else if w.Time != nil {
			fmt.Fprintf(&sb, " <%s>", FormatTimer(*w.Time, false))
		}
		sb.WriteByte(' ')
		sb.WriteString(w.Text)
		inLine++
	}
	return sb.String()
}

// ParseELRC reads text in the format written by ExportELRC back into a
// sequence. Line tags and inline tags become word times, applied in reading
// order through SetTime so that out-of-order tags resolve the same way as
// interactive edits. An opening [00:00.000] tag yields an explicit time of 0.
func ParseELRC(text string, duration float64) (*Sequence, error) {
	var words []Word
	var times []*float64

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "[") {
			return nil, fmt.Errorf("elrc line %d: missing line tag: %w", lineNo, ErrFormat)
		}
		end := strings.IndexByte(line, ']')
		if end < 0 {
			return nil, fmt.Errorf("elrc line %d: unterminated line tag: %w", lineNo, ErrFormat)
		}
		at, err := parseTimer(line[1:end])
		if err != nil {
			return nil, fmt.Errorf("elrc line %d: %w", lineNo, err)
		}
		pending := Seconds(at)

		for _, tok := range strings.Fields(line[end+1:]) {
			if strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") {
				at, err := parseTimer(tok[1 : len(tok)-1])
				if err != nil {
					return nil, fmt.Errorf("elrc line %d: %w", lineNo, err)
				}
				pending = Seconds(at)
				continue
			}
			words = append(words, Word{Text: tok})
			times = append(times, pending)
			pending = nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("elrc: read: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("elrc: no words: %w", ErrFormat)
	}

	s := New(duration, words...)
	for i, t := range times {
		if t == nil {
			continue
		}
		if err := s.SetTime(i, t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// parseTimer parses mm:ss.mmm as written by FormatTimer without hours.
func parseTimer(v string) (float64, error) {
	mm, ss, ok := strings.Cut(v, ":")
	if !ok {
		return 0, fmt.Errorf("timestamp %q: %w", v, ErrFormat)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("timestamp %q: minutes: %w", v, ErrFormat)
	}
	secs, err := strconv.ParseFloat(ss, 64)
	if err != nil || secs < 0 || secs >= 60 {
		return 0, fmt.Errorf("timestamp %q: seconds: %w", v, ErrFormat)
	}
	return float64(minutes)*60 + secs, nil
}
