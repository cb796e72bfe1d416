package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName string
	deckID   int64
	modelID  int64
	cards    []Card
	now      func() time.Time
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	if deckName == "" {
		deckName = "Punjabi Lyrics"
	}

	// IDs are timestamps so repeated exports land in separate decks
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName: deckName,
		deckID:   now,
		modelID:  now + 1,
		cards:    make([]Card, 0),
		now:      time.Now,
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG writes the collection database and an empty media map into
// a zip archive at outputPath.
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	if len(g.cards) == 0 {
		return fmt.Errorf("no cards to export")
	}

	tempDir, err := os.MkdirTemp("", "geet_anki_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Lyric cards carry no media, but Anki expects the mapping file
	if err := os.WriteFile(filepath.Join(tempDir, "media"), []byte("{}"), 0644); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := createZipPackage(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, query := range schema {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	if err := g.insertCollection(tx); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(tx); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return tx.Commit()
}

// schema is the Anki 2.1 collection layout (schema version 11)
var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

func deckEntry(id int64, name, desc string, mod int64) map[string]interface{} {
	return map[string]interface{}{
		"id":               id,
		"name":             name,
		"mod":              mod,
		"desc":             desc,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

func (g *APKGGenerator) insertCollection(tx *sql.Tx) error {
	now := g.now().Unix()

	decks := map[string]interface{}{
		"1": deckEntry(1, "Default", "", now),
		fmt.Sprintf("%d", g.deckID): deckEntry(g.deckID, g.deckName,
			"Punjabi song lines with pronunciation and translations", now),
	}
	models := map[string]interface{}{
		fmt.Sprintf("%d", g.modelID): g.noteType(now),
	}
	conf := map[string]interface{}{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      fmt.Sprintf("%d", g.modelID),
		"dayLearnFirst": false,
	}
	dconf := map[string]interface{}{
		"1": map[string]interface{}{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]interface{}{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]interface{}{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]interface{}{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": false,
			"replayq":  false,
		},
	}

	encoded := make([]string, 0, 4)
	for _, v := range []interface{}{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded = append(encoded, string(data))
	}

	_, err := tx.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1, now, now*1000, now*1000, 11, 0, 0, 0,
		encoded[0], encoded[1], encoded[2], encoded[3], "{}")
	return err
}

// noteFields lists the note type fields in storage order
var noteFields = []string{"Punjabi", "Pronunciation", "English", "Hindi", "Context", "Source"}

func (g *APKGGenerator) noteType(mod int64) map[string]interface{} {
	flds := make([]map[string]interface{}, 0, len(noteFields))
	for i, name := range noteFields {
		size := 20
		if i >= 4 {
			size = 16
		}
		flds = append(flds, map[string]interface{}{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   size,
			"media":  []string{},
		})
	}

	return map[string]interface{}{
		"id":        g.modelID,
		"name":      "Punjabi Lyric Line (geet)",
		"type":      0,
		"mod":       mod,
		"usn":       -1,
		"sortf":     0,
		"did":       g.deckID,
		"req":       [][]interface{}{{0, "all", []int{0}}, {1, "all", []int{2}}},
		"vers":      []int{},
		"tags":      []string{},
		"latexPre":  "\\documentclass[12pt]{article}\n\\begin{document}",
		"latexPost": "\\end{document}",
		"flds":      flds,
		"tmpls": []map[string]interface{}{
			{"name": "Listen", "ord": 0, "qfmt": frontTemplate, "afmt": backTemplate, "did": nil, "bqfmt": "", "bafmt": ""},
			{"name": "Recall", "ord": 1, "qfmt": reverseFrontTemplate, "afmt": reverseBackTemplate, "did": nil, "bqfmt": "", "bafmt": ""},
		},
		"css": cardCSS,
	}
}

const frontTemplate = `<div class="punjabi">{{Punjabi}}</div>
{{#Pronunciation}}<div class="pron">{{Pronunciation}}</div>{{/Pronunciation}}`

const backTemplate = `{{FrontSide}}

<hr id="answer">

<div class="english">{{English}}</div>
{{#Hindi}}<div class="hindi">{{Hindi}}</div>{{/Hindi}}
{{#Context}}<div class="context">{{Context}}</div>{{/Context}}
<div class="source">{{Source}}</div>`

const reverseFrontTemplate = `<div class="english">{{English}}</div>
<div class="source">{{Source}}</div>`

const reverseBackTemplate = `{{FrontSide}}

<hr id="answer">

<div class="punjabi">{{Punjabi}}</div>
{{#Pronunciation}}<div class="pron">{{Pronunciation}}</div>{{/Pronunciation}}
{{#Context}}<div class="context">{{Context}}</div>{{/Context}}`

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.punjabi {
  font-size: 30px;
  font-weight: bold;
  color: #d35400;
  margin: 20px 0;
}

.pron {
  font-size: 18px;
  color: #7f8c8d;
}

.english {
  font-size: 24px;
  color: #2c3e50;
  margin: 16px 0;
}

.hindi {
  font-size: 22px;
  color: #8e44ad;
}

.context, .source {
  font-size: 15px;
  color: #7f8c8d;
  margin-top: 14px;
  font-style: italic;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`

func (g *APKGGenerator) insertNotesAndCards(tx *sql.Tx) error {
	now := g.now()

	noteStmt, err := tx.Prepare(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	for i, card := range g.cards {
		// Leave room for two cards per note
		noteID := now.UnixMilli() + int64(i*3)

		english := card.English
		if english == "" {
			english = "Translation needed"
		}

		fields := strings.Join([]string{
			html.EscapeString(card.Punjabi),
			html.EscapeString(card.Pronunciation),
			html.EscapeString(english),
			html.EscapeString(card.Hindi),
			html.EscapeString(card.Context),
			html.EscapeString(card.Source),
		}, "\x1f")

		tags := ""
		if card.Tag != "" {
			tags = " " + card.Tag + " "
		}

		guid := fmt.Sprintf("geet_%d_%d", now.Unix(), i)
		if _, err := noteStmt.Exec(noteID, guid, g.modelID, now.Unix(), -1, tags,
			fields, card.Punjabi, 0, 0, ""); err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		for ord := 0; ord < 2; ord++ {
			cardID := noteID + int64(ord) + 1
			// due is the new-card position and must be unique
			due := noteID + int64(ord)
			if _, err := cardStmt.Exec(cardID, noteID, g.deckID, ord, now.Unix(), -1,
				0, 0, due, 0, 0, 0, 0, 0, 0, 0, 0, ""); err != nil {
				return fmt.Errorf("failed to insert card: %w", err)
			}
		}
	}

	return nil
}

func createZipPackage(tempDir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	for _, name := range []string{"collection.anki2", "media"} {
		if err := addZipEntry(archive, tempDir, name); err != nil {
			archive.Close()
			return err
		}
	}

	return archive.Close()
}

func addZipEntry(archive *zip.Writer, dir, name string) error {
	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}
