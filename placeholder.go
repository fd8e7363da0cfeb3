package shadergraph

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// slotKind is one of the three placeholder kinds a code template may contain.
type slotKind int

const (
	slotTemp   slotKind = iota // $TEMP@i$: node-local scratch variable
	slotOutput                 // $OUTPUT@i$: declaration of output i
	slotInput                  // $INPUT@i$: value of input i
)

var slotPrefixes = [...]string{
	slotTemp:   "$TEMP@",
	slotOutput: "$OUTPUT@",
	slotInput:  "$INPUT@",
}

var placeholderRE = regexp.MustCompile(`\$(TEMP|OUTPUT|INPUT)@([0-9]+)\$`)

func placeholder(kind slotKind, i int) string {
	return slotPrefixes[kind] + strconv.Itoa(i) + "$"
}

// slotHandler renders placeholder index i of one kind.
type slotHandler func(i int) (string, error)

// slotHandlers holds one handler per placeholder kind.
type slotHandlers [3]slotHandler

// expandTemplate substitutes placeholders in code, scanning indices 0, 1, 2, ...
// until an index has no placeholder of any kind. A placeholder left over
// after the scan means the template skipped an index.
func expandTemplate(code string, h slotHandlers) (string, error) {
	for i := 0; ; i++ {
		found := false
		for kind, handle := range h {
			ph := placeholder(slotKind(kind), i)
			if !strings.Contains(code, ph) {
				continue
			}
			found = true
			s, err := handle(i)
			if err != nil {
				return "", err
			}
			code = strings.ReplaceAll(code, ph, s)
		}
		if !found {
			break
		}
	}
	if m := placeholderRE.FindString(code); m != "" {
		return "", fmt.Errorf("%w: unresolved placeholder %s", ErrTemplateCorrupt, m)
	}
	return code, nil
}

// PlaceholderUse reports the highest index used per placeholder kind, or -1
// when a kind is absent.
type PlaceholderUse struct {
	MaxTemp, MaxOutput, MaxInput int
	indices                      map[int]bool
	outputs                      map[int]bool
}

// ScanPlaceholders reports which placeholder indices code uses.
func ScanPlaceholders(code string) PlaceholderUse {
	u := PlaceholderUse{MaxTemp: -1, MaxOutput: -1, MaxInput: -1, indices: map[int]bool{}, outputs: map[int]bool{}}
	for _, m := range placeholderRE.FindAllStringSubmatch(code, -1) {
		i, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		u.indices[i] = true
		switch m[1] {
		case "TEMP":
			u.MaxTemp = max(u.MaxTemp, i)
		case "OUTPUT":
			u.MaxOutput = max(u.MaxOutput, i)
			u.outputs[i] = true
		case "INPUT":
			u.MaxInput = max(u.MaxInput, i)
		}
	}
	return u
}

// checkTemplateCode verifies that code references only declared ports,
// declares every output, and uses contiguous indices so the expansion scan
// reaches every placeholder.
func checkTemplateCode(code string, inputs, outputs int) error {
	u := ScanPlaceholders(code)
	if u.MaxInput >= inputs {
		return fmt.Errorf("%w: $INPUT@%d$ with %d inputs", ErrTemplateCorrupt, u.MaxInput, inputs)
	}
	if u.MaxOutput >= outputs {
		return fmt.Errorf("%w: $OUTPUT@%d$ with %d outputs", ErrTemplateCorrupt, u.MaxOutput, outputs)
	}
	for i := 0; i < outputs; i++ {
		if !u.outputs[i] {
			return fmt.Errorf("%w: output %d is never declared", ErrTemplateCorrupt, i)
		}
	}
	top := max(u.MaxTemp, u.MaxOutput, u.MaxInput)
	for i := 0; i <= top; i++ {
		if !u.indices[i] {
			return fmt.Errorf("%w: placeholder index %d is skipped", ErrTemplateCorrupt, i)
		}
	}
	return nil
}
