// Copyright (c) 2017 Darren Whitlen <darren@kiwiirc.com>
// released under the MIT license

package pyircComponentLogger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/rs/zerolog/log"

	"github.com/Screwperman/pyirc/lib"
)

// FileMessageDatastore appends each buffer's messages to its own file,
// <path>/<network>/<buffer>.log.
type FileMessageDatastore struct {
	sync.Mutex
	logPath string
	now     func() time.Time
}

func NewFileMessageDatastore(config map[string]string) *FileMessageDatastore {
	return &FileMessageDatastore{
		logPath: config["path"],
		now:     time.Now,
	}
}

func (ds *FileMessageDatastore) SupportsStore() bool {
	return ds.logPath != ""
}
func (ds *FileMessageDatastore) SupportsRetrieve() bool {
	return false
}

func (ds *FileMessageDatastore) Store(event *pyirc.HookIrcLine) {
	if ds.logPath == "" {
		return
	}

	parts, ok := extractMessageParts(event)
	if !ok {
		return
	}
	line := fmt.Sprintf("[%s] %s", ds.now().Format(time.RFC3339), parts.format())

	ds.Lock()
	defer ds.Unlock()

	// Make sure the chat directory exists
	logPath := filepath.Join(ds.logPath, event.Network)
	err := os.MkdirAll(logPath, 0700)
	if err != nil {
		log.Error().Str("network", event.Network).Err(err).Msg("could not create log directory")
		return
	}
	filename := filepath.Join(logPath, safeFilename(parts.buffer)+".log")

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		log.Error().Str("network", event.Network).Err(err).Msg("could not open log file")
		return
	}
	defer f.Close()

	_, err = f.WriteString(line + "\n")
	if err != nil {
		log.Error().Str("network", event.Network).Err(err).Msg("could not write log line")
	}
}

func (ds *FileMessageDatastore) GetBeforeTime(string, string, time.Time, int) []*ircmsg.Message {
	return []*ircmsg.Message{}
}

func (ds *FileMessageDatastore) Close() error {
	return nil
}

// safeFilename keeps buffer names from escaping the log directory.
func safeFilename(buffer string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(buffer)
}
