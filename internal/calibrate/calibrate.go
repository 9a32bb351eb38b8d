// Package calibrate converts relative power levels into radio-astronomy
// temperatures using a hot/cold load calibration.
package calibrate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	timestats "github.com/cwbudde/algo-iqspec/stats/time"
)

var (
	// ErrDivisionByZero reports power levels that make a formula degenerate.
	ErrDivisionByZero = errors.New("calibrate: division by zero")

	// ErrNotFinite reports a result or input that is NaN or infinite.
	ErrNotFinite = errors.New("calibrate: non-finite value")

	// ErrSolidAngle reports a non-positive source solid angle.
	ErrSolidAngle = errors.New("calibrate: source solid angle must be greater than zero")

	errNoSamples = errors.New("calibrate: no power values")
)

// SystemTemperature returns T_sys = T_cal / (p_cal/p_sky - 1) in Kelvin.
func SystemTemperature(tCal, pCal, pSky float64) (float64, error) {
	if err := finite(tCal, pCal, pSky); err != nil {
		return 0, err
	}
	if pSky == 0 {
		return 0, fmt.Errorf("%w: p_sky is zero", ErrDivisionByZero)
	}
	denom := pCal/pSky - 1
	if denom == 0 {
		return 0, fmt.Errorf("%w: p_cal equals p_sky", ErrDivisionByZero)
	}
	return checked(tCal / denom)
}

// Source describes the optional beam dilution correction. Both fields are
// in square degrees; the correction applies only when both are set.
type Source struct {
	BeamSize   *float64
	SolidAngle *float64
}

// Factor returns (beam/sa_obj)², or 1 when either field is missing.
func (s Source) Factor() (float64, error) {
	if s.BeamSize == nil || s.SolidAngle == nil {
		return 1, nil
	}
	if *s.SolidAngle <= 0 {
		return 0, ErrSolidAngle
	}
	r := *s.BeamSize / *s.SolidAngle
	return r * r, nil
}

// ObjectTemperature returns
//
//	T_obj = (p_obj - p_sky)/(p_cal - p_sky) · T_cal · (beam/sa_obj)²
//
// in Kelvin.
func ObjectTemperature(tCal, pCal, pSky, pObj float64, src Source) (float64, error) {
	if err := finite(tCal, pCal, pSky, pObj); err != nil {
		return 0, err
	}
	if pCal == pSky {
		return 0, fmt.Errorf("%w: p_cal equals p_sky", ErrDivisionByZero)
	}
	factor, err := src.Factor()
	if err != nil {
		return 0, err
	}
	return checked((pObj - pSky) / (pCal - pSky) * tCal * factor)
}

// ReadPowerLevel reads "<index>\t<value>" lines, as written by the power-sum
// and amplitude-sum modes, and returns the statistics of the values. The
// mean is the level used for calibration.
func ReadPowerLevel(r io.Reader) (timestats.Stats, error) {
	var values []float64
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return timestats.Stats{}, fmt.Errorf("calibrate: line %d: %w", lineNo, err)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return timestats.Stats{}, fmt.Errorf("calibrate: read: %w", err)
	}
	if len(values) == 0 {
		return timestats.Stats{}, errNoSamples
	}
	return timestats.Calculate(values), nil
}

func finite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrNotFinite, v)
		}
	}
	return nil
}

func checked(v float64) (float64, error) {
	if err := finite(v); err != nil {
		return 0, err
	}
	return v, nil
}
