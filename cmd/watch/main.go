// Command watch connects to a Mumble server and follows it live: every
// event is printed as it happens and the roster table is redrawn on each
// presence change. Useful to eyeball a server before pointing the bridge at
// it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/wtaylor/mumble-telegram-bot/broadcast"
	"github.com/wtaylor/mumble-telegram-bot/client"
	"github.com/wtaylor/mumble-telegram-bot/domain"
	"github.com/wtaylor/mumble-telegram-bot/logs"
)

type Config struct {
	MumbleAddress            string  `env:"MUMBLE_ADDRESS,required=true"`
	MumblePort               int     `env:"MUMBLE_PORT,default=64738"`
	MumbleTLSServerName      string  `env:"MUMBLE_TLS_SERVER_NAME"`
	MumbleInsecureSkipVerify bool    `env:"MUMBLE_INSECURE_SKIP_VERIFY,default=false"`
	MumbleUsername           string  `env:"MUMBLE_USERNAME,required=true"`
	MumblePassword           *string `env:"MUMBLE_PASSWORD"`
	LogLevel                 string  `env:"LOG_LEVEL,default=warn"`
}

func main() {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mumble, err := client.Connect(ctx, client.Config{
		ServerAddress:      config.MumbleAddress,
		ServerPort:         config.MumblePort,
		TLSServerName:      config.MumbleTLSServerName,
		InsecureSkipVerify: config.MumbleInsecureSkipVerify,
		Username:           config.MumbleUsername,
		Password:           config.MumblePassword,
	}, logger)
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer mumble.Close()

	color.Green.Printf("Connected to %s:%d as %s\n", config.MumbleAddress, config.MumblePort, config.MumbleUsername)

	events := mumble.SubscribeEvents()
	for {
		e, err := events.Recv(ctx)
		if err != nil {
			var lag *broadcast.LagError
			if errors.As(err, &lag) {
				color.Yellow.Printf("... fell behind, %d events skipped\n", lag.Missed)
				continue
			}
			if errors.Is(err, broadcast.ErrClosed) {
				color.Red.Println("Connection closed")
			}
			return
		}
		fmt.Println(eventLine(e))
		switch e.(type) {
		case domain.UserJoinedServer, domain.UserLeftServer, domain.UserUpdated:
			renderRoster(os.Stdout, mumble.OnlineUsers())
		}
	}
}

func eventLine(e domain.Event) string {
	switch evt := e.(type) {
	case domain.UserJoinedServer:
		return color.Green.Sprintf("+ %s joined", evt.User.Name)
	case domain.UserLeftServer:
		return color.Red.Sprintf("- %s left", evt.User.Name)
	case domain.UserSwitchedChannel:
		return color.Cyan.Sprintf("> %s moved to channel %s", evt.User.Name, channelLabel(evt.User.ChannelID))
	case domain.TextMessagePosted:
		sender := domain.UnknownUserName
		if evt.Sender != nil {
			sender = evt.Sender.Name
		}
		return color.Bold.Sprintf("%s: %s", sender, evt.Message)
	default:
		return color.Gray.Sprintf("%s", e.Name())
	}
}

// channelLabel renders a channel id; a user not yet placed in any channel
// shows as "-" rather than a fake channel 0.
func channelLabel(id *uint32) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}

func renderRoster(w io.Writer, users []domain.User) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Session", "Name", "Channel", "Muted", "Deafened"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, user := range users {
		table.Append([]string{
			fmt.Sprintf("%d", user.Session),
			user.Name,
			channelLabel(user.ChannelID),
			fmt.Sprintf("%t", user.Muted),
			fmt.Sprintf("%t", user.Deafened),
		})
	}
	table.Render()
}
