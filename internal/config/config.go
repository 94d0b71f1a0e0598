package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Listen   string   `koanf:"listen"`
	Calendar Calendar `koanf:"calendar"`
	Vocab    Vocab    `koanf:"vocab"`
	Database Database `koanf:"db"`
	Metrics  Metrics  `koanf:"metrics"`
}

type Calendar struct {
	// Timezone is the wall clock the persisted naive date-time strings are
	// interpreted in.
	Timezone string `koanf:"timezone"`
}

// Vocab holds the controlled vocabularies served to the client. Both lists
// are ordered; the first entry is the default selection.
type Vocab struct {
	Categories []string `koanf:"categories"`
	CostTypes  []string `koanf:"costtypes"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Listen: ":8184",
		Calendar: Calendar{
			Timezone: "Asia/Seoul",
		},
		Vocab: Vocab{
			Categories: []string{"개발부", "영업부", "마케팅부"},
			CostTypes:  []string{"교통비", "식대", "주유비", "톨게이트", "교육비"},
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "fieldcal",
			Pass:   "",
			Name:   "fieldcal",
			Schema: "fieldcal",
		},
		Metrics: Metrics{
			Enabled: true,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "FIELDCAL_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "FIELDCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
