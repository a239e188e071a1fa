package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultOfficialURL = "https://bet.hkjc.com/contentserver/jcbw/cmc/last30draw.json"
	defaultThirdParty  = "https://lottolyzer.com/history/hong-kong/mark-six/page/1/per-page/50/summary-view"
)

type Config struct {
	DBPath  string `yaml:"db_path"`
	CSVPath string `yaml:"csv_path"`
	CSVURL  string `yaml:"csv_url"`

	OfficialURL        string   `yaml:"official_url"`
	ThirdPartyURLs     []string `yaml:"third_party_urls"`
	ThirdPartyMaxPages int      `yaml:"third_party_max_pages"`
	SourceMode         string   `yaml:"source_mode"` // official | csv | auto | auto_required

	MinHistory   int    `yaml:"min_history"`
	SyncSchedule string `yaml:"sync_schedule"` // 5-field cron expression; empty disables

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	Timezone string `yaml:"timezone"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.CSVPath, "CSV_PATH")
	envOverride(&cfg.CSVURL, "CSV_URL")
	envOverride(&cfg.OfficialURL, "OFFICIAL_URL")
	envOverrideInt(&cfg.ThirdPartyMaxPages, "THIRD_PARTY_MAX_PAGES")
	envOverride(&cfg.SourceMode, "SOURCE_MODE")
	envOverrideInt(&cfg.MinHistory, "MIN_HISTORY")
	envOverride(&cfg.SyncSchedule, "SYNC_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.Timezone, "TIMEZONE")

	if urls := os.Getenv("THIRD_PARTY_URLS"); urls != "" {
		cfg.ThirdPartyURLs = nil
		for _, u := range strings.Split(urls, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				cfg.ThirdPartyURLs = append(cfg.ThirdPartyURLs, u)
			}
		}
	}

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "./marksix.db"
	}
	if cfg.CSVPath == "" {
		cfg.CSVPath = "./Mark_Six.csv"
	}
	if cfg.OfficialURL == "" {
		cfg.OfficialURL = defaultOfficialURL
	}
	if len(cfg.ThirdPartyURLs) == 0 {
		cfg.ThirdPartyURLs = []string{defaultThirdParty}
	}
	if cfg.ThirdPartyMaxPages == 0 {
		cfg.ThirdPartyMaxPages = 60
	}
	if cfg.SourceMode == "" {
		cfg.SourceMode = string(SourceAuto)
	}
	if cfg.MinHistory == 0 {
		cfg.MinHistory = 20
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// Validate
	if _, err := ParseSourceMode(cfg.SourceMode); err != nil {
		log.Fatalf("invalid source_mode: %v", err)
	}
	if cfg.MinHistory < 1 {
		log.Fatalf("invalid min_history '%d': must be >= 1", cfg.MinHistory)
	}
	if cfg.ThirdPartyMaxPages < 1 {
		log.Fatalf("invalid third_party_max_pages '%d': must be >= 1", cfg.ThirdPartyMaxPages)
	}
	if cfg.SlackBotToken != "" && cfg.SlackChannelID == "" {
		log.Fatalf("slack_channel_id is required when slack_bot_token is set")
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
