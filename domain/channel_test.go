package domain

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/wtaylor/mumble-telegram-bot/control"
)

func TestNewChannel_NamelessChannelGetsRootLabel(t *testing.T) {
	req := require.New(t)

	channel := NewChannel(&control.ChannelState{ChannelID: lo.ToPtr(uint32(0))})

	req.Equal(uint32(0), channel.ID)
	req.Equal(RootChannelName, channel.Name)
	req.Nil(channel.Parent)
}

func TestChannel_Apply_LastWriteOfEveryPresentFieldWins(t *testing.T) {
	req := require.New(t)
	channel := NewChannel(&control.ChannelState{
		ChannelID: lo.ToPtr(uint32(3)),
		Name:      lo.ToPtr("Lounge"),
	})

	packets := []*control.ChannelState{
		{ChannelID: lo.ToPtr(uint32(3)), Description: lo.ToPtr("first")},
		{ChannelID: lo.ToPtr(uint32(3)), Name: lo.ToPtr("Dev"), MaxUsers: lo.ToPtr(uint32(10))},
		{ChannelID: lo.ToPtr(uint32(3)), Description: lo.ToPtr("second")},
	}
	for _, pkt := range packets {
		channel.Apply(pkt)
	}

	// Last-written value of every field ever present, untouched otherwise.
	req.Equal("Dev", channel.Name)
	req.Equal("second", *channel.Description)
	req.Equal(uint32(10), *channel.MaxUsers)
	req.Nil(channel.Parent)
}

func TestChannel_Apply_NoDifferenceEmitsNothing(t *testing.T) {
	req := require.New(t)
	channel := Channel{ID: 3, Name: "Lounge", MaxUsers: lo.ToPtr(uint32(10))}

	events := channel.Apply(&control.ChannelState{
		ChannelID: lo.ToPtr(uint32(3)),
		Name:      lo.ToPtr("Lounge"),
		MaxUsers:  lo.ToPtr(uint32(10)),
	})

	req.Empty(events)
}

func TestChannel_Apply_ChangeEmitsSingleUpdatedWithSnapshot(t *testing.T) {
	req := require.New(t)
	channel := Channel{ID: 3, Name: "Lounge"}

	events := channel.Apply(&control.ChannelState{
		ChannelID: lo.ToPtr(uint32(3)),
		Name:      lo.ToPtr("Dev"),
		Parent:    lo.ToPtr(uint32(0)),
	})

	req.Len(events, 1)
	updated, ok := events[0].(ChannelUpdated)
	req.True(ok)
	req.Equal("Dev", updated.Channel.Name)
	req.Equal(uint32(0), *updated.Channel.Parent)
}
