package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-iqspec/internal/calibrate"
	"github.com/cwbudde/algo-iqspec/internal/logging"
)

type calibrateFlags struct {
	tCal, pCal, pSky, pObj float64
	beamSize, saObj        float64
	calFile, skyFile       string
	objFile                string
}

func (a *app) calibrateCommand() *cobra.Command {
	var fl calibrateFlags

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Compute system and object temperature from calibration power levels",
		Long: `calibrate computes the system temperature

  T_sys = T_cal / (p_cal/p_sky - 1)

and, when an object power is given, the object temperature

  T_obj = (p_obj - p_sky)/(p_cal - p_sky) * T_cal * (beam/sa_obj)^2

where the solid-angle factor applies only when both --beam-size and
--sa-obj are set. Power levels can be given directly or as the mean of a
power-sum .dat file written by "iqspec power".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.calibrate(cmd, fl)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&fl.tCal, "t-cal", 0, "calibration load temperature in K")
	f.Float64Var(&fl.pCal, "p-cal", 0, "calibration power")
	f.Float64Var(&fl.pSky, "p-sky", 0, "sky power")
	f.Float64Var(&fl.pObj, "p-obj", 0, "object power")
	f.Float64Var(&fl.beamSize, "beam-size", 0, "beam size in deg²")
	f.Float64Var(&fl.saObj, "sa-obj", 0, "source solid angle in deg²")
	f.StringVar(&fl.calFile, "cal-file", "", "power-sum file measured on the calibration load")
	f.StringVar(&fl.skyFile, "sky-file", "", "power-sum file measured on cold sky")
	f.StringVar(&fl.objFile, "obj-file", "", "power-sum file measured on the object")
	_ = cmd.MarkFlagRequired("t-cal")
	cmd.MarkFlagsMutuallyExclusive("p-cal", "cal-file")
	cmd.MarkFlagsMutuallyExclusive("p-sky", "sky-file")
	cmd.MarkFlagsMutuallyExclusive("p-obj", "obj-file")

	return cmd
}

// level returns the power given by flag, or the mean of file when set.
func (a *app) level(cmd *cobra.Command, flag string, value float64, file string) (float64, bool, error) {
	if file != "" {
		in, err := a.fs.Open(file)
		if err != nil {
			return 0, false, fmt.Errorf("%s: %w", flag, err)
		}
		defer in.Close()

		st, err := calibrate.ReadPowerLevel(in)
		if err != nil {
			return 0, false, fmt.Errorf("%s: %w", file, err)
		}
		a.log.Debug("Power level read", logging.Fields{
			"file":   file,
			"blocks": st.Count,
			"mean":   st.Mean,
			"stddev": st.StdDev,
		})
		return st.Mean, true, nil
	}
	return value, cmd.Flags().Changed(flag), nil
}

func (a *app) calibrate(cmd *cobra.Command, fl calibrateFlags) error {
	pCal, ok, err := a.level(cmd, "p-cal", fl.pCal, fl.calFile)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("one of --p-cal or --cal-file is required")
	}
	pSky, ok, err := a.level(cmd, "p-sky", fl.pSky, fl.skyFile)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("one of --p-sky or --sky-file is required")
	}
	pObj, haveObj, err := a.level(cmd, "p-obj", fl.pObj, fl.objFile)
	if err != nil {
		return err
	}

	var src calibrate.Source
	if cmd.Flags().Changed("beam-size") && cmd.Flags().Changed("sa-obj") {
		src = calibrate.Source{BeamSize: &fl.beamSize, SolidAngle: &fl.saObj}
	}

	w := a.stdout
	fmt.Fprintln(w, "Input parameters:")
	fmt.Fprintf(w, "T_cal = %.2f K\n", fl.tCal)
	fmt.Fprintf(w, "p_cal = %.3f\n", pCal)
	fmt.Fprintf(w, "p_sky = %.3f\n", pSky)
	if haveObj {
		fmt.Fprintf(w, "p_obj = %.3f\n", pObj)
	}
	if src.BeamSize != nil {
		fmt.Fprintf(w, "beam_size = %.3f deg²\n", *src.BeamSize)
		fmt.Fprintf(w, "sa_obj = %.3f deg²\n", *src.SolidAngle)
	}

	tSys, err := calibrate.SystemTemperature(fl.tCal, pCal, pSky)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nCalculated T_sys = %.2f K\n", tSys)

	if !haveObj {
		return nil
	}
	tObj, err := calibrate.ObjectTemperature(fl.tCal, pCal, pSky, pObj, src)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Calculated T_obj = %.2f K\n", tObj)
	if src.BeamSize != nil {
		factor, _ := src.Factor()
		fmt.Fprintf(w, "(including solid angle correction factor: %.3f)\n", factor)
	}
	return nil
}
