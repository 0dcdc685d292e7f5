package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsatony/go-versaprompt"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput || path == "" {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// readDocument reads and parses a prompt document. Unnamed documents are
// named after their file.
func readDocument(path string, stdin io.Reader) (*versaprompt.Document, error) {
	source, err := readInput(path, stdin)
	if err != nil {
		return nil, newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	doc, err := versaprompt.ParseDocument(source)
	if err != nil {
		return nil, newExitError(ExitCodeValidationError, ErrMsgParseDocumentFailed, err)
	}
	if doc.Name == "" {
		doc.Name = documentName(path)
	}
	return doc, nil
}

func documentName(path string) string {
	if path == InputSourceStdin {
		return StdinPromptName
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadBindings merges a data file with --var assignments; --var wins.
func loadBindings(vars []string, dataFile string) (map[string]string, error) {
	bindings := make(map[string]string)

	if dataFile != "" {
		data, err := os.ReadFile(dataFile)
		if err != nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
		}

		var raw map[string]any
		if strings.EqualFold(filepath.Ext(dataFile), DataFileExtJSON) {
			err = json.Unmarshal(data, &raw)
		} else {
			err = yaml.Unmarshal(data, &raw)
		}
		if err != nil {
			return nil, newExitError(ExitCodeInputError, ErrMsgInvalidData, err)
		}

		for key, value := range raw {
			switch v := value.(type) {
			case map[string]any, []any:
				return nil, newExitError(ExitCodeInputError, ErrMsgNonScalarData, fmt.Errorf("%s", key))
			case nil:
				bindings[key] = ""
			case string:
				bindings[key] = v
			default:
				bindings[key] = fmt.Sprint(v)
			}
		}
	}

	for _, assignment := range vars {
		key, value, ok := strings.Cut(assignment, VarAssignSeparator)
		if !ok || key == "" {
			return nil, newExitError(ExitCodeUsageError, ErrMsgInvalidVar, fmt.Errorf("%q", assignment))
		}
		bindings[key] = value
	}

	return bindings, nil
}

// marshalJSON indents v and appends a newline.
func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// unboundPlaceholders returns the names without a document default.
func unboundPlaceholders(names []string, defaults map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := defaults[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
