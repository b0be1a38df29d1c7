package config

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	ex "github.com/martinozimek/india-etf/data/extensions"
	sm "github.com/martinozimek/india-etf/service/models"
)

// EtfFileSuffix marks a daily etf export, the etf id is the file name without it
const EtfFileSuffix = "_daily.csv"

type etfListFile struct {
	EtfDir string         `yaml:"etf_dir"`
	Etfs   []sm.EtfSource `yaml:"etfs"`
}

// LoadEtfList reads a yaml list of etfs and expands ${VAR} references.
// Relative files resolve against etf_dir from the list, or defaultDir when the list has none.
func LoadEtfList(path, defaultDir string) ([]sm.EtfSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read etf list: %w", err)
	}

	var list etfListFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &list); err != nil {
		return nil, fmt.Errorf("parse etf list yaml: %w", err)
	}

	dir := cmp.Or(list.EtfDir, defaultDir)
	seen := make(map[string]bool, len(list.Etfs))
	res := make([]sm.EtfSource, 0, len(list.Etfs))
	for i, etf := range list.Etfs {
		if etf.Id == "" {
			return nil, fmt.Errorf("etf list entry %d has no id", i)
		}
		if seen[etf.Id] {
			return nil, fmt.Errorf("etf %s is listed more than once", etf.Id)
		}
		seen[etf.Id] = true

		if etf.Path == "" {
			etf.Path = etf.Id + EtfFileSuffix
		}
		if !filepath.IsAbs(etf.Path) {
			etf.Path = filepath.Join(dir, etf.Path)
		}
		res = append(res, etf)
	}

	return res, nil
}

// DiscoverEtfs finds every daily etf export in dir, sorted by id
func DiscoverEtfs(dir string) ([]sm.EtfSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read etf dir: %w", err)
	}

	exports := ex.FilterMultiple(entries, func(e os.DirEntry) bool {
		return !e.IsDir() && strings.HasSuffix(e.Name(), EtfFileSuffix) && e.Name() != EtfFileSuffix
	})

	res := ex.Map(exports, func(e os.DirEntry) sm.EtfSource {
		return sm.EtfSource{
			Id:   strings.TrimSuffix(e.Name(), EtfFileSuffix),
			Path: filepath.Join(dir, e.Name()),
		}
	})
	slices.SortFunc(res, func(a, b sm.EtfSource) int {
		return cmp.Compare(a.Id, b.Id)
	})

	return res, nil
}
