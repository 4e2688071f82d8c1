package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/notify"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建邮件和短信发送器
	 **********************************************/
	var emailSender notify.EmailSender
	if cfg.Email.SMTP.Host != "" {
		client, err := mail.NewClient(cfg.Email.SMTP.Host,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithSSL(),
			mail.WithPort(cfg.Email.SMTP.Port),
			mail.WithUsername(cfg.Email.SMTP.Username),
			mail.WithPassword(cfg.Email.SMTP.Password),
		)
		if err != nil {
			logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
			return
		}
		defer client.Close()

		// 验证邮件客户端是否连接成功
		dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
		err = client.DialWithContext(dialCtx)
		cancel()
		if err != nil {
			logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
			return
		}

		emailSender = notify.NewSMTPSender(client, cfg.Email.SMTP.Username)
	} else {
		logger.Warn("未配置 SMTP 服务器，不发送邮件")
	}

	var smsSender notify.SMSSender = notify.NoopSMSSender{}
	if cfg.SMS.WebhookURL != "" {
		smsSender = notify.NewWebhookSMSSender(cfg.SMS.WebhookURL, cfg.SMS.Token, time.Duration(cfg.SMS.Timeout)*time.Second)
	} else {
		logger.Warn("未配置短信网关，短信只会记录在日志中")
	}

	dispatcher := notify.NewDispatcher(emailSender, smsSender)

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.Queue, // 队列名称
		true,               // 是否持久化
		false,              // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false,              // 是否独占，即是否允许多个消费者访问这个队列
		false,              // 是否不等待，设置为 false，即等待 RabbitMQ 确认队列是否创建成功
		nil,                // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，设置为空字符串，表示由 RabbitMQ 自动分配
		false,  // 是否自动确认消息
		false,  // 是否独占队列
		false,  // 必须设置为 false，因为 RabbitMQ 不支持这个参数
		false,  // 是否不等待，等待 RabbitMQ 响应
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("消息通道已关闭")
					return
				}
				handle(ctx, logger, dispatcher, msg)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 notifier...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("notifier 已成功关闭")
}

func handle(ctx context.Context, logger *slog.Logger, dispatcher *notify.Dispatcher, msg amqp.Delivery) {
	logger.Info("收到消息", slog.String("messageID", msg.MessageId))

	err := dispatcher.Handle(ctx, msg.Body)
	if err == nil {
		_ = msg.Ack(false)
		return
	}

	var permanent *notify.PermanentError
	if errors.As(err, &permanent) {
		logger.Error("无法处理的通知，直接丢弃", slog.String("messageID", msg.MessageId), slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}

	logger.Error("通知发送失败", slog.String("messageID", msg.MessageId), slog.String("error", err.Error()))
	_ = msg.Nack(false, true) // 将消息重新入队
}
