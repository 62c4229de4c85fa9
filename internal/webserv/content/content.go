// Package content implements the read-only content store backing the lesson
// pages and error localization. It resolves two JSON documents: an array of
// level definitions and a mapping of language code to localized text bundle.
// Documents are read fresh on each call; they are small and this keeps read
// failures visible per request.
package content

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/hedyserv/hedyserv/internal/common/apperrors"
)

// FallbackLanguage is the language code every deployment must provide a text
// bundle for. Lookups for unknown languages resolve to it.
const FallbackLanguage = "en"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LevelNumber is a level index that tolerates both numeric and string-encoded
// values in the content documents.
type LevelNumber int

// UnmarshalJSON implements json.Unmarshaler.
func (n *LevelNumber) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return err
	}
	*n = LevelNumber(v)
	return nil
}

// LevelRecord is one level's content for one language.
type LevelRecord struct {
	Level     LevelNumber `json:"Level"`
	Language  string      `json:"Language"`
	Commands  []string    `json:"Commands"`
	IntroText string      `json:"Intro_text"`
	StartCode string      `json:"Start_code"`
}

// TextBundle is the localized set of UI strings and error-message templates
// for one language.
type TextBundle struct {
	PageTitle           string            `json:"Page_Title"`
	RunButton           string            `json:"Run_code_button"`
	AdvanceButton       string            `json:"Advance_button"`
	EnterText           string            `json:"Enter_Text"`
	Enter               string            `json:"Enter"`
	ClientErrorMessages map[string]string `json:"ClientErrorMessages"`
	HedyErrorMessages   map[string]string `json:"HedyErrorMessages"`
}

// BundleOutcome reports how a text bundle lookup was satisfied.
type BundleOutcome int

const (
	// BundleFound means the requested language had its own bundle.
	BundleFound BundleOutcome = iota
	// BundleFellBack means the requested language was absent and the fallback
	// bundle was returned instead.
	BundleFellBack
	// BundleMissing means neither the requested language nor the fallback
	// bundle exists.
	BundleMissing
)

// Store reads level and text content from the configured backing files.
// A Store is safe for concurrent use; it holds no mutable state.
type Store struct {
	levelsPath string
	textsPath  string
}

// NewStore creates a content store over the given backing files.
func NewStore(levelsPath, textsPath string) *Store {
	return &Store{
		levelsPath: levelsPath,
		textsPath:  textsPath,
	}
}

// RawLevels returns the level definitions document verbatim, for pass-through
// responses.
func (s *Store) RawLevels() ([]byte, apperrors.Error) {
	data, err := os.ReadFile(s.levelsPath)
	if err != nil {
		return nil, ErrContentStore.Msg("unable to read level content").Err(err)
	}
	return data, nil
}

// Levels returns all level records across all languages, in document order.
func (s *Store) Levels() ([]LevelRecord, apperrors.Error) {
	data, err := s.RawLevels()
	if err != nil {
		return nil, err
	}
	var records []LevelRecord
	if jerr := json.Unmarshal(data, &records); jerr != nil {
		return nil, ErrContentStore.Msg("unable to parse level content").Err(jerr)
	}
	return records, nil
}

// Bundle returns the text bundle for the given language code, matched on the
// lowercase code. Unknown languages resolve to the fallback bundle; the
// outcome tells the caller which of the two happened.
func (s *Store) Bundle(language string) (*TextBundle, BundleOutcome, apperrors.Error) {
	data, err := os.ReadFile(s.textsPath)
	if err != nil {
		return nil, BundleMissing, ErrContentStore.Msg("unable to read text content").Err(err)
	}
	var bundles map[string]*TextBundle
	if jerr := json.Unmarshal(data, &bundles); jerr != nil {
		return nil, BundleMissing, ErrContentStore.Msg("unable to parse text content").Err(jerr)
	}
	if b, ok := bundles[strings.ToLower(language)]; ok && b != nil {
		return b, BundleFound, nil
	}
	if b, ok := bundles[FallbackLanguage]; ok && b != nil {
		return b, BundleFellBack, nil
	}
	return nil, BundleMissing, ErrContentStoreCorrupt
}

// MaxLevel returns the highest level number across all records, independent
// of language. Returns 0 for an empty record set.
func MaxLevel(records []LevelRecord) int {
	maxLevel := 0
	for _, r := range records {
		if int(r.Level) > maxLevel {
			maxLevel = int(r.Level)
		}
	}
	return maxLevel
}

// LevelForLanguage returns the first record matching the requested level and
// language.
func LevelForLanguage(records []LevelRecord, level int, language string) (*LevelRecord, apperrors.Error) {
	for i := range records {
		if int(records[i].Level) == level && records[i].Language == language {
			return &records[i], nil
		}
	}
	return nil, ErrContentNotFound.New("no content for level " + strconv.Itoa(level) + " (" + language + ")")
}
