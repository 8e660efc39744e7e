package bot

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSplitMessageShortContent(t *testing.T) {
	assert.Equal(t, []string{"hello"}, SplitMessage("hello", 10))
}

func TestSplitMessageOnLineBoundaries(t *testing.T) {
	content := "aaaa\nbbbb\ncccc\n"
	parts := SplitMessage(content, 10)
	assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, parts)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 10)
	}
}

func TestSplitMessageHardSplitsLongLine(t *testing.T) {
	parts := SplitMessage(strings.Repeat("x", 25), 10)
	require.Len(t, parts, 3)
	assert.Equal(t, strings.Repeat("x", 10), parts[0])
	assert.Equal(t, strings.Repeat("x", 5), parts[2])
}

func TestChainRunsOutermostFirst(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(c *Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}
	h := Chain(func(*Context) error {
		order = append(order, "handler")
		return nil
	}, mw("first"), mw("second"))

	require.NoError(t, h(&Context{}))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

type failingGateway struct{}

func (failingGateway) Send(string, string) error { return errors.New("closed") }
func (failingGateway) GuildMemberIDs(string) ([]string, error) { return nil, nil }

func TestReplyReturnsSendError(t *testing.T) {
	c := &Context{
		Message: &Message{ChannelID: "c1"},
		Gateway: failingGateway{},
		Log:     zap.NewNop().Sugar(),
	}
	assert.Error(t, c.Reply("hi"))
}
