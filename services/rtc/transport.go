// File: services/rtc/transport.go
package rtc

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"screenqa/models"
	agentsvc "screenqa/services/agent"
	"screenqa/services/screenshare"
	"screenqa/utils"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
)

const greeting = "Hello! Share your screen and ask a question about it. " +
	"You can speak or type your question."

// RoomConfig carries the LiveKit connection settings.
type RoomConfig struct {
	URL       string
	APIKey    string
	APISecret string
	RoomName  string
	Identity  string
}

// RoomTransport connects the agent to a LiveKit room. It is the producer
// side of the latest-frame buffer: participants publish screen snapshots as
// data packets on the screen-frame topic, and each accepted snapshot
// replaces the buffered frame. Questions arrive on the chat topic and agent
// replies go back on the agent-reply topic.
type RoomTransport struct {
	Agent  agentsvc.AgentService
	Frames *screenshare.LastFrame

	cfg       RoomConfig
	room      *lksdk.Room
	logger    *zap.Logger
	greetOnce sync.Once
}

// NewRoomTransport builds a transport around the shared frame buffer and the
// agent service that consumes it.
func NewRoomTransport(cfg RoomConfig, svc agentsvc.AgentService, frames *screenshare.LastFrame) *RoomTransport {
	return &RoomTransport{
		Agent:  svc,
		Frames: frames,
		cfg:    cfg,
		logger: utils.GetLogger(),
	}
}

// Connect joins the room and wires up the callbacks. Auto-subscribe is on so
// screen-share publications are picked up as soon as they appear.
func (t *RoomTransport) Connect(ctx context.Context) error {
	callback := &lksdk.RoomCallback{
		OnParticipantConnected: t.onParticipantConnected,
		OnDisconnected: func() {
			t.logger.Info("disconnected from room", zap.String("room", t.cfg.RoomName))
		},
		ParticipantCallback: lksdk.ParticipantCallback{
			OnTrackPublished:  t.onTrackPublished,
			OnTrackSubscribed: t.onTrackSubscribed,
			OnDataPacket:      t.onDataPacket,
		},
	}

	room, err := lksdk.ConnectToRoom(t.cfg.URL, lksdk.ConnectInfo{
		APIKey:              t.cfg.APIKey,
		APISecret:           t.cfg.APISecret,
		RoomName:            t.cfg.RoomName,
		ParticipantIdentity: t.cfg.Identity,
	}, callback, lksdk.WithAutoSubscribe(true))
	if err != nil {
		return err
	}
	t.room = room

	// Subscribe to screen-shares that were already published before we joined.
	for _, participant := range room.GetRemoteParticipants() {
		for _, pub := range participant.TrackPublications() {
			if remote, ok := pub.(*lksdk.RemoteTrackPublication); ok {
				t.onTrackPublished(remote, participant)
			}
		}
	}

	t.logger.Info("connected to room",
		zap.String("room", t.cfg.RoomName),
		zap.String("identity", t.cfg.Identity))
	return nil
}

// Disconnect leaves the room.
func (t *RoomTransport) Disconnect() {
	if t.room != nil {
		t.room.Disconnect()
	}
}

func (t *RoomTransport) onParticipantConnected(rp *lksdk.RemoteParticipant) {
	t.logger.Info("participant connected", zap.String("identity", rp.Identity()))
	t.greetOnce.Do(func() {
		t.publishReply(greeting)
	})
}

// onTrackPublished subscribes to screen-share video publications. Other
// tracks are left to the auto-subscribe default.
func (t *RoomTransport) onTrackPublished(pub *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
	isScreen := pub.Source() == livekit.TrackSource_SCREEN_SHARE ||
		strings.Contains(strings.ToLower(pub.Name()), "screen")
	if pub.Kind() == lksdk.TrackKindVideo && isScreen {
		if err := pub.SetSubscribed(true); err != nil {
			t.logger.Warn("failed to subscribe to screen-share",
				zap.String("participant", rp.Identity()), zap.Error(err))
		}
	}
}

func (t *RoomTransport) onTrackSubscribed(track *webrtc.TrackRemote, pub *lksdk.RemoteTrackPublication, rp *lksdk.RemoteParticipant) {
	// Frames reach the agent as data-channel snapshots, not decoded media;
	// the subscription keeps publication state in sync with the room.
	t.logger.Info("track subscribed",
		zap.String("participant", rp.Identity()),
		zap.String("track", pub.Name()),
		zap.String("kind", string(pub.Kind())))
}

func (t *RoomTransport) onDataPacket(data lksdk.DataPacket, params lksdk.DataReceiveParams) {
	packet, ok := data.(*lksdk.UserDataPacket)
	if !ok {
		return
	}
	switch packet.Topic {
	case utils.TopicScreenFrame:
		// The buffer throttles on its own; dropped frames are expected.
		t.Frames.Update(screenshare.Frame{Data: packet.Payload, Format: "jpeg"})
	case utils.TopicChat:
		go t.handleChat(params.SenderIdentity, string(packet.Payload))
	}
}

func (t *RoomTransport) handleChat(sender, text string) {
	resp, err := t.Agent.ProcessUserInput(context.Background(), models.AgentRequest{
		SessionID: t.cfg.RoomName,
		Text:      text,
	})
	if err != nil {
		t.logger.Error("failed to process chat message",
			zap.String("sender", sender), zap.Error(err))
		t.publishReply("Sorry, something went wrong handling that. Please try again.")
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.logger.Error("failed to encode agent response", zap.Error(err))
		return
	}
	t.publishReply(string(b))
}

func (t *RoomTransport) publishReply(payload string) {
	if t.room == nil {
		return
	}
	err := t.room.LocalParticipant.PublishDataPacket(
		lksdk.UserData([]byte(payload)),
		lksdk.WithDataPublishTopic(utils.TopicAgentReply),
		lksdk.WithDataPublishReliable(true),
	)
	if err != nil {
		t.logger.Error("failed to publish agent reply", zap.Error(err))
	}
}
