package table

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agentstation/amjd/pkg/constants"
	"github.com/agentstation/amjd/pkg/errors"
)

// Write creates path (and its parent directory) and writes header plus rows.
func Write(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions) //nolint:gosec
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}

// FormatFloat renders an optional float in its shortest exact form; nil is "".
func FormatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatString renders an optional string; nil is "".
func FormatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// FormatBool renders a bool the way the datasets spell it.
func FormatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
