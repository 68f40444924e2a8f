// Package sysfile reads the plain-text system descriptions fed to the
// simulator.
package sysfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/trojansim/internal/celestial"
)

// ParseError locates a malformed entry in a system description.
type ParseError struct {
	Line   int
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sysfile: line %d: %s: %s", e.Line, e.Field, e.Reason)
}

// Parse reads a system description: one body per line, the kind first,
// then key=value parameters in any order.
//
//	STAR name=sol mass=1.989e30
//	GIANT name=jove mass=1.898e27 position=7.785e11,0,0 velocity=0,13057,0
//	TERRESTRIAL trojan=true name=hektor mass=1e20 position=... velocity=...
//
// Blank lines and #-comment lines are skipped. Omitted parameters keep
// their zero values; the trojan pair is designated by
// celestial.NewSystem from the parsed order.
func Parse(r io.Reader) (*celestial.System, error) {
	var bodies []celestial.Body

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		body, err := parseLine(lineno, line)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, body)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sysfile: %w", err)
	}

	return celestial.NewSystem(bodies), nil
}

// ParseFile reads a system description from path.
func ParseFile(path string) (*celestial.System, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sysfile: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func parseLine(lineno int, line string) (celestial.Body, error) {
	fields := strings.Fields(line)

	kind, err := celestial.ParseKind(fields[0])
	if err != nil {
		return celestial.Body{}, &ParseError{
			Line:   lineno,
			Field:  "kind",
			Reason: fmt.Sprintf("%q is not STAR, GIANT or TERRESTRIAL", fields[0]),
		}
	}
	body := celestial.Body{Kind: kind}

	for _, param := range fields[1:] {
		key, value, found := strings.Cut(param, "=")
		if !found || value == "" {
			return celestial.Body{}, &ParseError{Line: lineno, Field: key, Reason: "missing value"}
		}

		switch key {
		case "trojan":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return celestial.Body{}, &ParseError{Line: lineno, Field: key, Reason: "must be a boolean"}
			}
			body.Trojan = b
		case "name":
			body.Name = value
		case "mass", "radius":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return celestial.Body{}, &ParseError{Line: lineno, Field: key, Reason: "must be a number"}
			}
			if f < 0 {
				return celestial.Body{}, &ParseError{Line: lineno, Field: key, Reason: "must not be negative"}
			}
			if key == "mass" {
				body.Mass = f
			} else {
				body.Radius = f
			}
		case "position", "velocity":
			v, err := parseVector(value)
			if err != nil {
				return celestial.Body{}, &ParseError{Line: lineno, Field: key, Reason: err.Error()}
			}
			if key == "position" {
				body.Position = v
			} else {
				body.Velocity = v
			}
		default:
			return celestial.Body{}, &ParseError{Line: lineno, Field: key, Reason: "unknown parameter"}
		}
	}

	return body, nil
}

func parseVector(value string) (celestial.Vector3, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return celestial.Vector3{}, errors.New("must be three comma-separated numbers")
	}

	var out [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return celestial.Vector3{}, errors.New("must be three comma-separated numbers")
		}
		out[i] = f
	}
	return celestial.Vector3{X: out[0], Y: out[1], Z: out[2]}, nil
}
