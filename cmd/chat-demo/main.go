package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/KetherPL/SC-Sub-Poster/internal/config"
	"github.com/KetherPL/SC-Sub-Poster/internal/metrics"
	"github.com/KetherPL/SC-Sub-Poster/pkg/chat"
	"github.com/KetherPL/SC-Sub-Poster/pkg/logon"
	"github.com/KetherPL/SC-Sub-Poster/pkg/transport/wsconn"
)

var (
	// Version is injected via -ldflags "-X main.Version=..."
	Version = "dev"
)

func main() {
	var cfgPaths string
	flag.StringVar(&cfgPaths, "c", "./config.yml", "config file path (supports: a.yml,b.yml)")
	flag.Parse()

	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg, err := config.Load(cfgPaths)
	if err != nil {
		log.Fatal("load config failed", zap.Error(err))
	}
	log.Info("chat-demo starting", zap.String("version", Version), zap.String("addr", cfg.Server.Addr))

	metrics.Register()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 2 * time.Second,
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := wsconn.Dial(ctx, cfg.Server.Addr, wsconn.Options{Logger: log})
	if err != nil {
		log.Fatal("dial failed", zap.Error(err))
	}
	defer conn.Close()

	var sess *logon.Session
	if cfg.Account.Anonymous {
		sess, err = logon.Anonymous(ctx, conn, log)
	} else {
		sess, err = logon.Logon(ctx, conn, logon.Credentials{
			Account:   cfg.Account.Name,
			Password:  cfg.Account.Password,
			GuardCode: cfg.Account.GuardCode,
		}, log)
	}
	if err != nil {
		log.Fatal("logon failed", zap.Error(err))
	}

	client := chat.New(conn, chat.Options{
		Logger:        log,
		EchoTimeout:   cfg.Chat.EchoTimeout,
		Throttle:      cfg.Chat.Throttle,
		StreamBackoff: cfg.Chat.StreamBackoff,
	})

	rooms, err := client.GetMyChatRooms(ctx)
	if err != nil {
		log.Fatal("list chat rooms failed", zap.Error(err))
	}
	for _, r := range rooms {
		log.Info("chat room",
			zap.Uint64("chat_group_id", r.ChatGroupID),
			zap.Uint64("chat_id", r.ChatID),
			zap.String("name", r.ChatGroupName),
		)
	}

	if len(rooms) > 0 {
		room := rooms[0]
		msg, err := client.SendGroupMessage(ctx, chat.SendGroupMessageParams{
			ChatGroupID:  room.ChatGroupID,
			ChatID:       room.ChatID,
			Message:      "hello from " + sess.SteamID().Steam3(),
			EchoToSender: true,
		})
		if err != nil {
			log.Error("send failed",
				zap.Error(err),
				zap.String("disposition", chat.Classify(err).Disposition.String()),
			)
		} else {
			log.Info("message sent",
				zap.String("modified", msg.ModifiedMessage),
				zap.Bool("ordinal_known", msg.Ordinal != nil),
			)
		}
	}

	go func() {
		err := client.ListenFriendMessages(ctx, chat.FriendMessageHandlerFunc(func(m *chat.FriendMessage) error {
			log.Info("friend message",
				zap.String("from", m.SenderID.Steam3()),
				zap.String("text", m.Message),
			)
			return nil
		}))
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("friend listener stopped", zap.Error(err))
		}
	}()

	err = client.ListenGroupMessages(ctx, chat.GroupMessageHandlerFunc(func(m *chat.GroupMessage) error {
		fields := []zap.Field{
			zap.Uint64("chat_group_id", m.ChatGroupID),
			zap.String("from", m.SenderID.Steam3()),
			zap.String("text", m.Message),
		}
		if m.Processed != nil && m.Processed.Mentions != nil {
			fields = append(fields,
				zap.Bool("mention_all", m.Processed.Mentions.All),
				zap.Int("mentioned_users", len(m.Processed.Mentions.UserIDs)),
			)
		}
		log.Info("group message", fields...)
		return nil
	}))
	if err != nil && !errors.Is(err, context.Canceled) {
		entry := chat.Classify(err)
		log.Error("group listener stopped",
			zap.Error(err),
			zap.String("domain", entry.Domain.String()),
			zap.String("disposition", entry.Disposition.String()),
		)
		os.Exit(1)
	}

	log.Info("chat-demo shutting down")
}
