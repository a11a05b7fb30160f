package margins

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/go-drift/margins/pkg/errors"
	"github.com/go-drift/margins/pkg/platform"
)

// Methods the host may call on the viewport channel.
const (
	ShowMarginsMethod      = "ShowMargins"
	HideMarginsMethod      = "HideMargins"
	SetMarginsPinnedMethod = "SetMarginsPinned"
	SetMaxMarginsMethod    = "SetMaxMargins"
)

// ControlMethods lists the methods served by ListenMethods.
var ControlMethods = []string{ShowMarginsMethod, HideMarginsMethod, SetMarginsPinnedMethod, SetMaxMarginsMethod}

// ListenMethods serves host requests arriving on ch, replacing any handler
// the channel had. Requests and their arguments are:
//
//	ShowMargins      {"immediate": bool}   arguments optional
//	HideMargins      {"immediate": bool}   arguments optional
//	SetMarginsPinned {"pinned": bool}
//	SetMaxMargins    {"left", "top", "right", "bottom": number >= 0}, missing edges are 0
//
// Malformed arguments fail the call with an *errors.ParseError and unknown
// methods with platform.ErrMethodNotFound. Successful calls return nil.
func (c *Controller) ListenMethods(ch *platform.MethodChannel) {
	name := ch.Name()
	ch.SetHandler(func(method string, args any) (any, error) {
		c.logger.Debug("host request", zap.String("channel", name), zap.String("method", method))
		return nil, c.handleMethod(name, method, args)
	})
}

func (c *Controller) handleMethod(channel, method string, args any) error {
	fail := func() error {
		return &errors.ParseError{Channel: channel, DataType: method + " arguments", Got: args}
	}

	switch method {
	case ShowMarginsMethod, HideMarginsMethod:
		immediate := false
		if args != nil {
			m, ok := args.(map[string]any)
			if !ok {
				return fail()
			}
			if raw, present := m["immediate"]; present {
				if immediate, ok = raw.(bool); !ok {
					return fail()
				}
			}
		}
		if method == ShowMarginsMethod {
			c.ShowMargins(immediate)
		} else {
			c.HideMargins(immediate)
		}
	case SetMarginsPinnedMethod:
		m, ok := args.(map[string]any)
		if !ok {
			return fail()
		}
		pinned, ok := m["pinned"].(bool)
		if !ok {
			return fail()
		}
		c.SetMarginsPinned(pinned)
	case SetMaxMarginsMethod:
		m, ok := args.(map[string]any)
		if !ok {
			return fail()
		}
		var edges [4]float64
		for i, key := range []string{"left", "top", "right", "bottom"} {
			raw, present := m[key]
			if !present {
				continue
			}
			v, ok := raw.(float64)
			if !ok || !(v >= 0) {
				return fail()
			}
			edges[i] = v
		}
		c.SetMaxMargins(edges[0], edges[1], edges[2], edges[3])
	default:
		return fmt.Errorf("%w: %s", platform.ErrMethodNotFound, method)
	}
	return nil
}
