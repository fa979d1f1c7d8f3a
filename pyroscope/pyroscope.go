package pyroscope

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
)

const (
	MODE_TUI      = "tui"
	MODE_HEADLESS = "headless"
)

var allProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,

	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockCount,
	pyroscope.ProfileBlockDuration,
}

func profileTypes(names []string) ([]pyroscope.ProfileType, error) {
	if len(names) == 0 {
		return allProfileTypes, nil
	}

	types := make([]pyroscope.ProfileType, 0, len(names))
	for _, name := range names {
		found := false
		for _, profileType := range allProfileTypes {
			if string(profileType) == name {
				types = append(types, profileType)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("pyroscope: unknown profile type '%s'", name)
		}
	}
	return types, nil
}

func buildConfig(logger *logrus.Logger, config Config, mode string) (pyroscope.Config, error) {
	types, err := profileTypes(config.ProfileTypes)
	if err != nil {
		return pyroscope.Config{}, err
	}

	tags := map[string]string{
		"hostname": os.Getenv("HOSTNAME"),
		"mode":     mode,
	}
	for key, value := range config.Tags {
		tags[key] = value
	}

	return pyroscope.Config{
		ApplicationName: config.ApplicationName,
		ServerAddress:   config.ServerAddress,
		AuthToken:       config.ApiKey,
		Logger:          logger,
		Tags:            tags,
		ProfileTypes:    types,
	}, nil
}

// Run starts continuous profiling, tagged with whether the map is drawn or
// only the http server runs. The returned stop func flushes and shuts the
// profiler down.
func Run(logger *logrus.Logger, config Config, mode string) (func() error, error) {
	pyroscopeConfig, err := buildConfig(logger, config, mode)
	if err != nil {
		return nil, err
	}

	runtime.SetMutexProfileFraction(config.MutexProfileFraction)
	runtime.SetBlockProfileRate(config.BlockProfileRate)

	profiler, err := pyroscope.Start(pyroscopeConfig)
	if err != nil {
		return nil, err
	}
	return profiler.Stop, nil
}
