package models

// Verse represents one entry of the daily verse corpus
type Verse struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Reference string `json:"reference"`
	Book      string `json:"book"`
	Chapter   int    `json:"chapter"`
	Verse     int    `json:"verse"`
	Category  string `json:"category,omitempty"`
}

// ActivityKind names one of the tracked daily activities
type ActivityKind string

const (
	ActivityReading  ActivityKind = "hasReading"
	ActivityDevotion ActivityKind = "hasDevotion"
	ActivityPrayer   ActivityKind = "hasPrayer"
)

// Valid reports whether k is a known activity
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityReading, ActivityDevotion, ActivityPrayer:
		return true
	}
	return false
}

// DayRecord holds the activities done on a calendar date (YYYY-MM-DD)
type DayRecord struct {
	Date        string `json:"date"`
	HasReading  bool   `json:"hasReading"`
	HasDevotion bool   `json:"hasDevotion"`
	HasPrayer   bool   `json:"hasPrayer"`
}

// Active reports whether any activity was recorded for the day
func (r DayRecord) Active() bool {
	return r.HasReading || r.HasDevotion || r.HasPrayer
}

// Has returns the flag for the given activity
func (r DayRecord) Has(kind ActivityKind) bool {
	switch kind {
	case ActivityReading:
		return r.HasReading
	case ActivityDevotion:
		return r.HasDevotion
	case ActivityPrayer:
		return r.HasPrayer
	}
	return false
}

// Flip toggles the flag for the given activity
func (r *DayRecord) Flip(kind ActivityKind) {
	switch kind {
	case ActivityReading:
		r.HasReading = !r.HasReading
	case ActivityDevotion:
		r.HasDevotion = !r.HasDevotion
	case ActivityPrayer:
		r.HasPrayer = !r.HasPrayer
	}
}

// Progress summarises the activity history
type Progress struct {
	Streak    int `json:"streak"`
	TotalDays int `json:"totalDays"`
}

// EventType classifies calendar events
type EventType string

const (
	EventReading  EventType = "reading"
	EventPrayer   EventType = "prayer"
	EventGeneric  EventType = "event"
	EventReminder EventType = "reminder"
)

// Valid reports whether t is a known event type
func (t EventType) Valid() bool {
	switch t {
	case EventReading, EventPrayer, EventGeneric, EventReminder:
		return true
	}
	return false
}

// CalendarEvent is a user-created entry on the calendar
type CalendarEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Date            string    `json:"date"`
	Time            string    `json:"time,omitempty"`
	Type            EventType `json:"type"`
	HasNotification bool      `json:"hasNotification"`
}

// CalendarDay is one cell of a month grid. Day is zero for leading blanks.
type CalendarDay struct {
	Day    int        `json:"day"`
	Date   string     `json:"date,omitempty"`
	Record *DayRecord `json:"record,omitempty"`
}

// Sound identifies the alarm tone
type Sound string

const (
	SoundGentle   Sound = "gentle"
	SoundMorning  Sound = "morning"
	SoundPeaceful Sound = "peaceful"
	SoundWorship  Sound = "worship"
	SoundNature   Sound = "nature"
)

// Valid reports whether s is one of the bundled sounds
func (s Sound) Valid() bool {
	switch s {
	case SoundGentle, SoundMorning, SoundPeaceful, SoundWorship, SoundNature:
		return true
	}
	return false
}

// Alarm is a custom weekly reminder. Days holds weekday indexes, 0 = Sunday.
type Alarm struct {
	ID      string `json:"id"`
	Time    string `json:"time"`
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
	Sound   Sound  `json:"sound"`
	Days    []int  `json:"days"`
}

// PresetKind identifies one of the built-in reminders
type PresetKind string

const (
	PresetMorning PresetKind = "morning"
	PresetNight   PresetKind = "night"
)

// Valid reports whether k is a known preset
func (k PresetKind) Valid() bool {
	return k == PresetMorning || k == PresetNight
}

// PresetAlarm is the configuration of a built-in daily reminder
type PresetAlarm struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"`
	SoundID Sound  `json:"soundId"`
}

// DailyNotification is the time of the daily greeting
type DailyNotification struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NoteCategory groups notes
type NoteCategory string

const (
	NoteFavoriteVerses NoteCategory = "favorite_verses"
	NoteDevotionals    NoteCategory = "devotionals"
	NotePersonal       NoteCategory = "personal"
)

// Valid reports whether c is a known note category
func (c NoteCategory) Valid() bool {
	switch c {
	case NoteFavoriteVerses, NoteDevotionals, NotePersonal:
		return true
	}
	return false
}

// Note is a journal entry
type Note struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Category  NoteCategory `json:"category"`
	Reference string       `json:"reference,omitempty"`
	CreatedAt string       `json:"createdAt"`
}

// VerseRef addresses a single verse of the Bible reader
type VerseRef struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Verse   int    `json:"verse"`
}

// Highlight is a colored mark on a verse. At most one exists per VerseRef.
type Highlight struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Verse   int    `json:"verse"`
	Color   string `json:"color"`
	Text    string `json:"text"`
}

// Ref returns the verse the highlight is attached to
func (h Highlight) Ref() VerseRef {
	return VerseRef{Book: h.Book, Chapter: h.Chapter, Verse: h.Verse}
}

// FavoriteVerse is a verse saved as favourite, keyed by its reference
type FavoriteVerse struct {
	Verse
	Date string `json:"date"`
}

// ThemeName identifies a color theme
type ThemeName string

const (
	ThemeDefault ThemeName = "default"
	ThemeDark    ThemeName = "dark"
	ThemePink    ThemeName = "pink"
	ThemeYellow  ThemeName = "yellow"
)

// Valid reports whether t is a known theme
func (t ThemeName) Valid() bool {
	switch t {
	case ThemeDefault, ThemeDark, ThemePink, ThemeYellow:
		return true
	}
	return false
}

// Profile holds the user's personal settings
type Profile struct {
	UserName     string    `json:"userName,omitempty"`
	MemberSince  string    `json:"memberSince,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	HasOnboarded bool      `json:"hasOnboarded"`
	ThemeName    ThemeName `json:"themeName"`
	AutoTheme    bool      `json:"autoTheme"`
}
