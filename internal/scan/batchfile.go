package scan

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/localpulse/gridscan/internal/model"
)

// batchFile is the on-disk shape of a batch scan definition.
type batchFile struct {
	Scans []batchScan `yaml:"scans"`
}

type batchScan struct {
	Keyword      string  `yaml:"keyword"`
	TargetDomain string  `yaml:"target_domain"`
	Lat          float64 `yaml:"lat"`
	Lng          float64 `yaml:"lng"`
	GridSize     int     `yaml:"grid_size"`
	RadiusMiles  float64 `yaml:"radius_miles"`
	NumResults   int     `yaml:"num_results"`
	Device       string  `yaml:"device"`
}

// LoadBatchFile reads scan requests from a YAML file:
//
//	scans:
//	  - keyword: "plumber near me"
//	    target_domain: acmeplumbing.com
//	    lat: 40.0
//	    lng: -75.0
//	    grid_size: 5
//	    radius_miles: 5
func LoadBatchFile(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scan: read batch file %s", path)
	}

	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "scan: parse batch file")
	}
	if len(file.Scans) == 0 {
		return nil, eris.New("scan: batch file contains no scans")
	}

	reqs := make([]Request, 0, len(file.Scans))
	for _, s := range file.Scans {
		reqs = append(reqs, Request{
			Keyword:      s.Keyword,
			TargetDomain: s.TargetDomain,
			CenterLat:    s.Lat,
			CenterLng:    s.Lng,
			Config: model.GridConfig{
				GridSize:    s.GridSize,
				RadiusMiles: s.RadiusMiles,
			},
			NumResults: s.NumResults,
			Device:     model.Device(s.Device),
		})
	}
	return reqs, nil
}
