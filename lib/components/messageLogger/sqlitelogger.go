// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

//go:build sqlite

package pyircComponentLogger

import (
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib"

	_ "github.com/mattn/go-sqlite3"
)

type SqliteMessage struct {
	ts          int64
	network     string
	buffer      string
	from        string
	messageType int
	line        string
}

// SqliteMessageDatastore keeps messages in a sqlite database, written from
// a single goroutine.
type SqliteMessageDatastore struct {
	dbPath       string
	db           *sql.DB
	messageQueue chan SqliteMessage
	done         chan struct{}
	closeOnce    sync.Once
}

func (ds *SqliteMessageDatastore) SupportsStore() bool {
	return true
}
func (ds *SqliteMessageDatastore) SupportsRetrieve() bool {
	return true
}
func NewSqliteMessageDatastore(config map[string]string) (*SqliteMessageDatastore, error) {
	ds := &SqliteMessageDatastore{}

	ds.dbPath = config["database"]
	if ds.dbPath == "" {
		return nil, errors.New("sqlite logger: no database set")
	}
	db, err := sql.Open("sqlite3", ds.dbPath)
	if err != nil {
		return nil, err
	}

	ds.db = db

	// Create the tables if needed
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS messages (netid TEXT, ts INT, buffer TEXT, fromNick TEXT, type INT, line TEXT)")
	if err != nil {
		db.Close()
		return nil, errors.New("Error creating messages sqlite database: " + err.Error())
	}

	storeStmt, err := db.Prepare("INSERT INTO messages (netid, ts, buffer, fromNick, type, line) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		db.Close()
		return nil, err
	}

	// Start the queue to insert messages
	ds.messageQueue = make(chan SqliteMessage, 64)
	ds.done = make(chan struct{})
	go ds.messageWriter(storeStmt)

	return ds, nil
}

func (ds *SqliteMessageDatastore) messageWriter(storeStmt *sql.Stmt) {
	defer close(ds.done)
	defer storeStmt.Close()

	for message := range ds.messageQueue {
		_, err := storeStmt.Exec(
			message.network,
			message.ts,
			message.buffer,
			message.from,
			message.messageType,
			message.line,
		)
		if err != nil {
			log.Error().Str("network", message.network).Err(err).Msg("could not store message")
		}
	}
}

func (ds *SqliteMessageDatastore) Store(event *pyirc.HookIrcLine) {
	parts, ok := extractMessageParts(event)
	if !ok {
		return
	}

	ds.messageQueue <- SqliteMessage{
		ts:          time.Now().UTC().Unix(),
		network:     event.Network,
		buffer:      parts.buffer,
		from:        parts.from,
		messageType: parts.messageType,
		line:        parts.line,
	}
}

func (ds *SqliteMessageDatastore) GetBeforeTime(networkID string, buffer string, from time.Time, num int) []*ircmsg.Message {
	messages := []*ircmsg.Message{}

	query := "SELECT ts, fromNick, type, line FROM (SELECT rowid, ts, fromNick, type, line FROM messages WHERE netid = ? AND buffer = ? AND ts < ? ORDER BY ts DESC, rowid DESC LIMIT ?) ORDER BY ts, rowid"
	rows, err := ds.db.Query(query, networkID, strings.ToLower(buffer), from.UTC().Unix(), num)
	if err != nil {
		log.Error().Str("network", networkID).Err(err).Msg("could not read messages")
		return messages
	}
	defer rows.Close()

	for rows.Next() {
		var ts int64
		var from string
		var messageType int
		var line string
		if err := rows.Scan(&ts, &from, &messageType, &line); err != nil {
			log.Error().Str("network", networkID).Err(err).Msg("could not read message")
			continue
		}

		mCommand := "PRIVMSG"
		mParams := []string{buffer, line}
		switch messageType {
		case TYPE_ACTION:
			mParams[1] = "\x01ACTION " + line + "\x01"
		case TYPE_NOTICE:
			mCommand = "NOTICE"
		case TYPE_JOIN:
			mCommand = "JOIN"
			mParams = mParams[:1]
		case TYPE_PART:
			mCommand = "PART"
		case TYPE_KICK:
			kicker, reason, _ := strings.Cut(line, " ")
			mCommand = "KICK"
			mParams = []string{buffer, from, reason}
			from = kicker
		}

		m := ircmsg.MakeMessage(nil, from, mCommand, mParams...)
		m.SetTag("time", time.Unix(ts, 0).UTC().Format(time.RFC3339))
		messages = append(messages, &m)
	}

	return messages
}

// Close stops the writer once everything queued is stored.
func (ds *SqliteMessageDatastore) Close() error {
	var err error
	ds.closeOnce.Do(func() {
		close(ds.messageQueue)
		<-ds.done
		err = ds.db.Close()
	})
	return err
}
