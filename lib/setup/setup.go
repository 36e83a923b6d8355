// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package ircsetup

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/fatih/color"

	"github.com/Screwperman/pyirc/lib"
)

var (
	CbBlue   = color.New(color.Bold, color.FgHiBlue).SprintfFunc()
	CbCyan   = color.New(color.Bold, color.FgHiCyan).SprintfFunc()
	CbYellow = color.New(color.Bold, color.FgHiYellow).SprintfFunc()
	CbRed    = color.New(color.Bold, color.FgHiRed).SprintfFunc()
)

// stdin is shared so buffered input isn't lost between prompts
var stdin = bufio.NewReader(os.Stdin)

// Section displays a section to the user
func Section(text string) {
	Note("")
	fmt.Println(CbBlue("["), CbYellow("**"), CbBlue("]"), "--", text, "--")
	Note("")
}

// Note displays a note to the user
func Note(text string) {
	fmt.Println(CbBlue("["), CbYellow("**"), CbBlue("]"), text)
}

// Query asks for a value from the user
func Query(prompt string) (string, error) {
	fmt.Print(CbBlue("[ "), CbYellow("??"), CbBlue(" ] "), prompt)

	response, err := stdin.ReadString('\n')
	return strings.TrimRight(response, "\r\n"), err
}

// QueryNoEcho asks for a value from the user without echoing what they type
func QueryNoEcho(prompt string) (string, error) {
	fmt.Print(CbBlue("[ "), CbYellow("??"), CbBlue(" ] "), prompt)

	response, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Print("\n")
	return string(response), err
}

// QueryDefault asks for a value, falling back to a default
func QueryDefault(prompt string, defaultValue string) (string, error) {
	response, err := Query(prompt)

	if err != nil {
		return "", err
	}

	if len(strings.TrimSpace(response)) < 1 {
		return defaultValue, nil
	}
	return strings.TrimSpace(response), nil
}

// QueryBool asks for a true/false value from the user
func QueryBool(prompt string) (bool, error) {
	for {
		response, err := Query(prompt)
		if err != nil {
			return false, err
		}

		response = strings.ToLower(strings.TrimSpace(response))
		if len(response) < 1 {
			continue
		}

		// check for yes/true/1 or no/false/0
		if strings.Contains("yt1", string(response[0])) {
			return true, nil
		} else if strings.Contains("nf0", string(response[0])) {
			return false, nil
		}
	}
}

// Warn warns the user about something
func Warn(text string) {
	fmt.Println(CbBlue("["), CbRed("**"), CbBlue("]"), text)
}

// Error shows the user an error
func Error(text string) {
	fmt.Println(CbBlue("["), CbRed("!!"), CbBlue("]"), CbRed(text))
}

// queryName asks until validate accepts the answer.
func queryName(prompt, defaultValue string, validate func(string) (string, error)) (string, error) {
	for {
		response, err := QueryDefault(prompt, defaultValue)
		if err != nil {
			return "", err
		}

		name, err := validate(response)
		if err == nil {
			return name, nil
		}
		Error(err.Error())
	}
}

// InitialSetup asks the user about their networks, writes the config to
// configFile and creates the database.
func InitialSetup(configFile string) error {
	fmt.Println(CbBlue("["), CbCyan("~~"), CbBlue("]"), "Welcome to", CbCyan("pyirc"))
	Note("We will now run through basic setup.")

	config := &pyirc.Config{}
	config.Networks = make(map[string]*pyirc.NetworkConfig)

	Section("General settings")
	var err error
	config.Pyirc.DatabasePath, err = QueryDefault("Database path [pyirc.db]: ", "pyirc.db")
	if err != nil {
		return err
	}

	owner, err := Query("Nick allowed to send control commands (probably empty): ")
	if err != nil {
		return err
	}
	if owner = strings.TrimSpace(owner); owner != "" {
		config.Pyirc.Owner, err = pyirc.IrcName(owner, false)
		if err != nil {
			return err
		}
	}

	Section("Network Setup")
	for {
		setupNewNet, err := QueryBool("Set up a network? (y/n) ")
		if err != nil {
			return err
		}
		if !setupNewNet {
			if len(config.Networks) > 0 {
				break
			}
			Warn("At least one network is needed")
			continue
		}

		name, nc, err := queryNetwork()
		if err != nil {
			return err
		}
		if _, exists := config.Networks[name]; exists {
			Warn(fmt.Sprintf("Replacing network %s", name))
		}
		config.Networks[name] = nc
	}

	err = config.Save(configFile)
	if err != nil {
		return fmt.Errorf("Could not write config: %w", err)
	}
	Note(fmt.Sprintf("Config written to %s.", configFile))

	err = pyirc.InitDB(config.Pyirc.DatabasePath, false)
	if errors.Is(err, pyirc.ErrDatabaseExists) {
		overwrite, qErr := QueryBool(fmt.Sprintf("Database %s exists, overwrite it? (y/n) ", config.Pyirc.DatabasePath))
		if qErr != nil {
			return qErr
		}
		if !overwrite {
			Note("Keeping the existing database.")
			return pyirc.CheckDB(config.Pyirc.DatabasePath)
		}
		err = pyirc.InitDB(config.Pyirc.DatabasePath, true)
	}
	if err != nil {
		return err
	}

	fmt.Println(CbBlue("["), CbCyan("~~"), CbBlue("]"), CbCyan("pyirc"), "is now configured!")
	Note(fmt.Sprintf("You can now run `pyirc connect --conf %s`", configFile))
	return nil
}

func queryNetwork() (string, *pyirc.NetworkConfig, error) {
	nc := &pyirc.NetworkConfig{}

	var name string
	for {
		netName, err := Query("Name (e.g. libera): ")
		if err != nil {
			return "", nil, err
		}

		name, err = pyirc.NetworkName(netName)
		if err == nil {
			Note(fmt.Sprintf("Network name is %s. Will be stored internally as %s.", netName, name))
			break
		}
		Error(err.Error())
	}

	for {
		address, err := Query("Server host (e.g. irc.libera.chat): ")
		if err != nil {
			return "", nil, err
		}

		nc.Address = strings.TrimSpace(address)
		if len(nc.Address) < 1 {
			Error("Hostname must have at least one character!")
			continue
		}
		break
	}

	for {
		portString, err := QueryDefault(fmt.Sprintf("Server Port [%d]: ", pyirc.DefaultPort), strconv.Itoa(pyirc.DefaultPort))
		if err != nil {
			return "", nil, err
		}

		nc.Port, err = strconv.Atoi(portString)
		if err != nil {
			Error(err.Error())
			continue
		}
		if (nc.Port < 1) || (nc.Port > 65535) {
			Error("Port number can be 1 - 65535")
			continue
		}
		break
	}

	var err error
	nc.Password, err = QueryNoEcho("Server connection password (probably empty): ")
	if err != nil {
		return "", nil, err
	}

	nc.Nick, err = queryName("Enter Nickname: ", "", func(nick string) (string, error) {
		return pyirc.IrcName(nick, false)
	})
	if err != nil {
		return "", nil, err
	}

	nc.Username, err = queryName(fmt.Sprintf("Enter Username [%s]: ", nc.Nick), nc.Nick, func(user string) (string, error) {
		return pyirc.IrcName(user, false)
	})
	if err != nil {
		return "", nil, err
	}

	nc.Realname, err = QueryDefault(fmt.Sprintf("Enter Realname [%s]: ", pyirc.Ver), pyirc.Ver)
	if err != nil {
		return "", nil, err
	}

	for {
		channelsString, err := Query("Channels to autojoin (separated by spaces): ")
		if err != nil {
			return "", nil, err
		}

		nc.Channels = nil
		var badChannel error
		for _, channel := range strings.Fields(channelsString) {
			channel, badChannel = pyirc.IrcName(channel, true)
			if badChannel != nil {
				break
			}
			nc.Channels = append(nc.Channels, channel)
		}

		if badChannel != nil {
			Error(badChannel.Error())
			continue
		}
		break
	}

	return name, nc, nil
}
