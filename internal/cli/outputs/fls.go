// --- START OF NEW FILE internal/cli/outputs/fls.go ---
package outputs

import (
	"bufio"
	"io"
	"os"
	"slices"
	"strings"
)

const recorderOutputPrefix = "OUTPUT "

// ParseRecorderOutputs returns the files listed on OUTPUT lines of a TeX
// recorder (.fls) file, in order and without duplicates.
func ParseRecorderOutputs(r io.Reader) ([]string, error) {
	var files []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		name, ok := strings.CutPrefix(line, recorderOutputPrefix)
		if !ok || name == "" {
			continue
		}
		if !slices.Contains(files, name) {
			files = append(files, name)
		}
	}
	return files, sc.Err()
}

// ReadRecorderOutputs is ParseRecorderOutputs on the file at path.
func ReadRecorderOutputs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRecorderOutputs(f)
}

// --- END OF NEW FILE internal/cli/outputs/fls.go ---
