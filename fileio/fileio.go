// Package fileio wraps common file operations with the error kinds used
// across the module, plus JSON, YAML and zip convenience helpers.
package fileio

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	treecheck "github.com/mlenders/treecheck"
)

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadFileText reads the whole file as a string.
func ReadFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &treecheck.FileNotFoundError{
				Message: fmt.Sprintf("file %q does not exist", path), Cause: err}
		}
		return "", &treecheck.FileReadError{
			Message: fmt.Sprintf("could not read file %q", path), Cause: err}
	}
	return string(data), nil
}

// WriteFileText writes text to path, creating or truncating the file.
func WriteFileText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &treecheck.FileWriteError{
			Message: fmt.Sprintf("could not write file %q", path), Cause: err}
	}
	return nil
}

// DeleteFile removes a regular file. A missing or non-regular target is an
// error.
func DeleteFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &treecheck.FileDeleteError{
			Message: fmt.Sprintf("file %q does not exist", path), Cause: err}
	}
	if !info.Mode().IsRegular() {
		return &treecheck.FileDeleteError{
			Message: fmt.Sprintf("%q is not a regular file", path)}
	}
	if err := os.Remove(path); err != nil {
		return &treecheck.FileDeleteError{
			Message: fmt.Sprintf("could not delete file %q", path), Cause: err}
	}
	return nil
}

// DeleteDirectory removes a directory and everything below it. A missing or
// non-directory target is an error.
func DeleteDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &treecheck.FileDeleteError{
			Message: fmt.Sprintf("directory %q does not exist", path), Cause: err}
	}
	if !info.IsDir() {
		return &treecheck.FileDeleteError{
			Message: fmt.Sprintf("%q is not a directory", path)}
	}
	if err := os.RemoveAll(path); err != nil {
		return &treecheck.FileDeleteError{
			Message: fmt.Sprintf("could not delete directory %q", path), Cause: err}
	}
	return nil
}

// ReadJSONFile decodes a JSON file into out.
func ReadJSONFile(path string, out any) error {
	text, err := ReadFileText(path)
	if err != nil {
		return err
	}
	if err := gojson.Unmarshal([]byte(text), out); err != nil {
		return &treecheck.FileReadError{
			Message: fmt.Sprintf("file %q does not contain valid JSON", path), Cause: err}
	}
	return nil
}

// WriteJSONFile encodes v as indented JSON and writes it to path.
func WriteJSONFile(path string, v any) error {
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return &treecheck.FileWriteError{
			Message: fmt.Sprintf("could not encode JSON for %q", path), Cause: err}
	}
	return WriteFileText(path, string(data)+"\n")
}

// ReadYAMLFile decodes a YAML file into out.
func ReadYAMLFile(path string, out any) error {
	text, err := ReadFileText(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal([]byte(text), out); err != nil {
		return &treecheck.FileReadError{
			Message: fmt.Sprintf("file %q does not contain valid YAML", path), Cause: err}
	}
	return nil
}

// WriteYAMLFile encodes v as YAML and writes it to path.
func WriteYAMLFile(path string, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return &treecheck.FileWriteError{
			Message: fmt.Sprintf("could not encode YAML for %q", path), Cause: err}
	}
	if err := enc.Close(); err != nil {
		return &treecheck.FileWriteError{
			Message: fmt.Sprintf("could not encode YAML for %q", path), Cause: err}
	}
	return WriteFileText(path, buf.String())
}

// ReadZipAll reads every entry of a zip archive into a name -> contents map.
// Directory entries are skipped.
func ReadZipAll(path string) (map[string][]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &treecheck.FileNotFoundError{
				Message: fmt.Sprintf("file %q does not exist", path), Cause: err}
		}
		return nil, &treecheck.FileReadError{
			Message: fmt.Sprintf("could not open zip archive %q", path), Cause: err}
	}
	defer r.Close()

	out := make(map[string][]byte, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &treecheck.FileReadError{
				Message: fmt.Sprintf("could not read %q from zip archive %q", f.Name, path), Cause: err}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &treecheck.FileReadError{
				Message: fmt.Sprintf("could not read %q from zip archive %q", f.Name, path), Cause: err}
		}
		out[f.Name] = data
	}
	return out, nil
}

// CreateZip writes the name -> contents map as a zip archive at path, with
// entries stored in sorted name order for reproducible output.
func CreateZip(path string, files map[string][]byte) error {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		entry, err := w.Create(name)
		if err != nil {
			return &treecheck.FileWriteError{
				Message: fmt.Sprintf("could not add %q to zip archive %q", name, path), Cause: err}
		}
		if _, err := entry.Write(files[name]); err != nil {
			return &treecheck.FileWriteError{
				Message: fmt.Sprintf("could not add %q to zip archive %q", name, path), Cause: err}
		}
	}
	if err := w.Close(); err != nil {
		return &treecheck.FileWriteError{
			Message: fmt.Sprintf("could not finish zip archive %q", path), Cause: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &treecheck.FileWriteError{
			Message: fmt.Sprintf("could not write zip archive %q", path), Cause: err}
	}
	return nil
}
