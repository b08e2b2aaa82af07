package redis

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publish sends v as JSON on a channel. A disabled client drops the message.
func (c *Client) Publish(ctx context.Context, channel string, v interface{}) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("publish marshal failed: %w", err)
	}
	if err := c.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s failed: %w", channel, err)
	}
	return nil
}

// Subscribe calls handler with each raw payload received on channel
// until ctx is done. A disabled client blocks until ctx is done.
func (c *Client) Subscribe(ctx context.Context, channel string, handler func([]byte)) error {
	if !c.enabled {
		<-ctx.Done()
		return nil
	}

	sub := c.rdb.Subscribe(ctx, channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s failed: %w", channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handler([]byte(msg.Payload))
		}
	}
}
