package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/molline/pkg/errors"
	molio "github.com/matzehuels/molline/pkg/io"
	"github.com/matzehuels/molline/pkg/mol"
	"github.com/matzehuels/molline/pkg/smiles"
)

// Parse reads a single record in the given format.
func Parse(data, format string) (*mol.Molecule, error) {
	switch format {
	case FormatSMILES:
		if err := errors.ValidateLineInput(data); err != nil {
			return nil, err
		}
		return smiles.Parse(data)
	case FormatJSON:
		if strings.TrimSpace(data) == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "record cannot be empty")
		}
		return molio.ReadJSON(strings.NewReader(data))
	default:
		return nil, ValidateFormat(format)
	}
}

// ReadInputs splits a batch file into records.
//
// SMILES files hold one record per line: the SMILES string, optionally
// followed by whitespace and a name. JSON files hold one graph document per
// line. Blank lines and lines starting with '#' are skipped. Records without
// a name are identified by their line number.
func ReadInputs(r io.Reader, format string) ([]Input, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	var inputs []Input
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), errors.MaxLineLength+1)
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		in := Input{ID: fmt.Sprintf("line %d", n), Format: format, Data: text}
		switch format {
		case FormatSMILES:
			if fields := strings.Fields(text); len(fields) > 1 {
				in.Data = fields[0]
				in.ID = strings.Join(fields[1:], " ")
			}
		case FormatJSON:
			var head struct {
				Name string `json:"name"`
			}
			if json.Unmarshal([]byte(text), &head) == nil && head.Name != "" {
				in.ID = head.Name
			}
		}
		inputs = append(inputs, in)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read records")
	}
	return inputs, nil
}

// WriteRecords writes the serialized records joined by the record
// separator. A failed record is written as an empty line so output lines
// stay aligned with input records.
func WriteRecords(w io.Writer, records []Record, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := bw.WriteString(opts.Line.Record(r.Text)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
