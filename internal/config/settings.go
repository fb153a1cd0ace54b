package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lutherald/hymnscan/internal/model"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override file settings,
// e.g. HYMNSCAN_REQUEST_DELAY=2.
const EnvPrefix = "HYMNSCAN"

// Settings holds all configuration options.
type Settings struct {
	// Collection settings
	CollectionPath  string `json:"collection_path" mapstructure:"collection_path"`
	MissingListPath string `json:"missing_list_path" mapstructure:"missing_list_path"`
	LastHymn        int    `json:"last_hymn" mapstructure:"last_hymn"`

	// Source pages
	PageURLTemplate  string `json:"page_url_template" mapstructure:"page_url_template"`   // %d is the hymn number
	AudioURLTemplate string `json:"audio_url_template" mapstructure:"audio_url_template"` // %s is the zero-padded hymn number
	SongsPageURL     string `json:"songs_page_url" mapstructure:"songs_page_url"`
	NotFoundClass    string `json:"not_found_class" mapstructure:"not_found_class"`
	LyricsSelector   string `json:"lyrics_selector" mapstructure:"lyrics_selector"`

	// Request settings
	RequestDelay   float64 `json:"request_delay" mapstructure:"request_delay"`     // seconds between page fetches
	RequestTimeout float64 `json:"request_timeout" mapstructure:"request_timeout"` // seconds, 0 disables
	UserAgent      string  `json:"user_agent" mapstructure:"user_agent"`

	// Audio mirror settings
	AudioDir                  string  `json:"audio_dir" mapstructure:"audio_dir"`
	MaxConcurrentAudio        int     `json:"max_concurrent_audio" mapstructure:"max_concurrent_audio"`
	AudioMaxRetries           int     `json:"audio_max_retries" mapstructure:"audio_max_retries"`
	AudioRetryCooldown        float64 `json:"audio_retry_cooldown" mapstructure:"audio_retry_cooldown"`
	AudioRetryExponent        float64 `json:"audio_retry_exponent" mapstructure:"audio_retry_exponent"`
	AllowedFileSizeDifference float64 `json:"allowed_file_size_difference" mapstructure:"allowed_file_size_difference"`

	// Tag settings
	ModifyTags bool   `json:"modify_tags" mapstructure:"modify_tags"`
	HymnalName string `json:"hymnal_name" mapstructure:"hymnal_name"`
	TagArtist  string `json:"tag_artist" mapstructure:"tag_artist"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist" mapstructure:"create_playlist"`
	PlaylistFormat string `json:"playlist_format" mapstructure:"playlist_format"` // m3u, pls
	M3UExtended    bool   `json:"m3u_extended" mapstructure:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		CollectionPath:  "hymns.json",
		MissingListPath: "missing_hymns.txt",
		LastHymn:        model.LastHymn,

		PageURLTemplate:  "https://tacoma.clclutheran.org/hymns/tlh-%d/",
		AudioURLTemplate: "https://tacoma.clclutheran.org/wp-content/uploads/hymns/%s.mp3",
		SongsPageURL:     "https://tacoma.clclutheran.org/songs-and-hymns/",
		NotFoundClass:    "error404",
		LyricsSelector:   "div.entry-content",

		RequestDelay:   1.0,
		RequestTimeout: 30,
		UserAgent:      "",

		AudioDir:                  "hymns",
		MaxConcurrentAudio:        1,
		AudioMaxRetries:           3,
		AudioRetryCooldown:        0.5,
		AudioRetryExponent:        2.0,
		AllowedFileSizeDifference: 0.05,

		ModifyTags: true,
		HymnalName: "The Lutheran Hymnal",
		TagArtist:  "",

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// Load reads settings from a JSON file, layered over the defaults.
//
// A missing file yields the defaults. Environment variables named
// HYMNSCAN_<KEY> (e.g. HYMNSCAN_AUDIO_DIR) override both.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v, DefaultSettings()); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	settings := DefaultSettings()
	if err := v.Unmarshal(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// setDefaults registers every settings key with viper so that environment
// overrides apply to keys absent from the file.
func setDefaults(v *viper.Viper, s *Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	for key, value := range values {
		v.SetDefault(key, value)
	}
	return nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Delay returns the pause between page fetches.
func (s *Settings) Delay() time.Duration {
	return Seconds(s.RequestDelay)
}

// Timeout returns the per-request timeout; zero means none.
func (s *Settings) Timeout() time.Duration {
	return Seconds(s.RequestTimeout)
}

// RetryCooldown returns the base delay between audio download attempts.
func (s *Settings) RetryCooldown() time.Duration {
	return Seconds(s.AudioRetryCooldown)
}

// Seconds converts a non-negative number of seconds to a duration; zero or
// negative values yield zero.
func Seconds(f float64) time.Duration {
	if f <= 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
