// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"encoding/gob"
	"errors"
	"io"
)

var (
	// ErrWriteResults is returned when encoding results to binary fails.
	ErrWriteResults = errors.New("failed to write binary results")
	// ErrReadResults is returned when decoding results from binary fails.
	ErrReadResults = errors.New("failed to read binary results")
)

// resultGob is the wire form of Result. Errors do not gob-encode, so they
// are flattened to strings on the way out and rehydrated on the way in.
type resultGob struct {
	Label    string
	ExitCode int
	ErrText  string
	StdOut   []byte
	StdErr   []byte
	Status   ResultStatus
	Children Results
}

// GobEncode implements gob.GobEncoder for Result.
func (r *Result) GobEncode() ([]byte, error) {
	shadow := resultGob{
		Label:    r.Label,
		ExitCode: r.ExitCode,
		StdOut:   r.StdOut,
		StdErr:   r.StdErr,
		Status:   r.Status,
		Children: r.Children,
	}
	if r.Error != nil {
		shadow.ErrText = r.Error.Error()
	}

	buf := bytes.Buffer{}
	if err := gob.NewEncoder(&buf).Encode(shadow); err != nil {
		return nil, errors.Join(ErrWriteResults, err)
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder for Result.
func (r *Result) GobDecode(data []byte) error {
	shadow := resultGob{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&shadow); err != nil {
		return errors.Join(ErrReadResults, err)
	}

	r.Label = shadow.Label
	r.ExitCode = shadow.ExitCode
	r.StdOut = shadow.StdOut
	r.StdErr = shadow.StdErr
	r.Status = shadow.Status
	r.Children = shadow.Children

	if shadow.ErrText != "" {
		r.Error = errors.New(shadow.ErrText)
	}

	return nil
}

// WriteBinary encodes the results to the writer in gob format, suitable for
// later inspection with the show command.
func WriteBinary(w io.Writer, results Results) error {
	if err := gob.NewEncoder(w).Encode(results); err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	return nil
}

// ReadBinary decodes results previously written with WriteBinary.
func ReadBinary(r io.Reader) (Results, error) {
	results := Results{}
	if err := gob.NewDecoder(r).Decode(&results); err != nil {
		return nil, errors.Join(ErrReadResults, err)
	}

	return results, nil
}
