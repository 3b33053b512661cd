package notification_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rmoreas/benefits-portal/internal/core/events"
	"github.com/rmoreas/benefits-portal/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

var _ = Describe("Mailer", func() {
	var (
		server   *httptest.Server
		mu       sync.Mutex
		received []notification.Message
		payloads []map[string]any
		auths    []string
		mailer   *notification.Mailer
		testLog  *slog.Logger
	)

	receivedMessages := func() []notification.Message {
		mu.Lock()
		defer mu.Unlock()
		return append([]notification.Message(nil), received...)
	}

	receivedPayloads := func() []map[string]any {
		mu.Lock()
		defer mu.Unlock()
		return append([]map[string]any(nil), payloads...)
	}

	BeforeEach(func() {
		received = nil
		payloads = nil
		auths = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			Expect(err).NotTo(HaveOccurred())

			var msg notification.Message
			Expect(json.Unmarshal(body, &msg)).To(Succeed())
			var raw map[string]any
			Expect(json.Unmarshal(body, &raw)).To(Succeed())

			mu.Lock()
			received = append(received, msg)
			payloads = append(payloads, raw)
			auths = append(auths, r.Header.Get("Authorization"))
			mu.Unlock()
			w.WriteHeader(http.StatusAccepted)
		}))

		testLog = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mailer = notification.NewMailer(notification.Config{
			MailerURL:   server.URL,
			APIKey:      "mail-key",
			SendTimeout: 2 * time.Second,
			MaxWorkers:  2,
			QueueSize:   10,
		}, testLog)
	})

	AfterEach(func() {
		mailer.Shutdown()
		server.Close()
	})

	Describe("Enqueue", func() {
		It("should deliver the message to the webhook with the API key", func() {
			mailer.Enqueue(notification.Message{
				To:      "maria@example.com",
				Subject: "hello",
				Body:    "world",
			})

			Eventually(receivedMessages, 3*time.Second).Should(HaveLen(1))
			Expect(receivedMessages()[0].To).To(Equal("maria@example.com"))

			mu.Lock()
			defer mu.Unlock()
			Expect(auths[0]).To(Equal("Bearer mail-key"))
		})
	})

	Describe("Shutdown", func() {
		It("should shut down cleanly immediately after startup", func() {
			for i := 0; i < 20; i++ {
				m := notification.NewMailer(notification.Config{MailerURL: server.URL}, testLog)
				m.Shutdown()
			}
		})
	})

	Describe("SubscribeToDecisions", func() {
		var bus *events.EventBus

		BeforeEach(func() {
			bus = events.NewEventBus(testLog)
			mailer.SubscribeToDecisions(bus)
		})

		It("should mail the owner when a request is approved", func() {
			event := events.NewRequestDecidedEvent(7, 42, 9, "approved", "", "maria@example.com")

			Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

			Eventually(receivedMessages, 3*time.Second).Should(HaveLen(1))
			msg := receivedMessages()[0]
			Expect(msg.To).To(Equal("maria@example.com"))
			Expect(msg.Subject).To(ContainSubstring("approved"))
			Expect(msg.RequestID).To(Equal(int64(7)))
			Expect(msg.Action).To(Equal("approved"))
		})

		It("should post the structured decision fields on the wire", func() {
			event := events.NewRequestDecidedEvent(7, 42, 9, "approved", "", "maria@example.com")

			Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

			Eventually(receivedPayloads, 3*time.Second).Should(HaveLen(1))
			raw := receivedPayloads()[0]
			Expect(raw).To(HaveKeyWithValue("request_id", float64(7)))
			Expect(raw).To(HaveKeyWithValue("action", "approved"))
			Expect(raw).To(HaveKey("to"))
		})

		It("should include the rejection reason in the body and payload", func() {
			event := events.NewRequestDecidedEvent(7, 42, 9, "rejected", "missing invoice", "maria@example.com")

			Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

			Eventually(receivedMessages, 3*time.Second).Should(HaveLen(1))
			msg := receivedMessages()[0]
			Expect(msg.Subject).To(ContainSubstring("rejected"))
			Expect(msg.Body).To(ContainSubstring("missing invoice"))
			Expect(msg.Action).To(Equal("rejected"))
			Expect(msg.RejectionReason).To(Equal("missing invoice"))

			raw := receivedPayloads()[0]
			Expect(raw).To(HaveKeyWithValue("rejection_reason", "missing invoice"))
		})

		It("should swallow events without a recipient", func() {
			event := events.NewRequestDecidedEvent(7, 42, 9, "approved", "", "")

			Expect(bus.PublishSync(context.Background(), event)).To(Succeed())

			Consistently(receivedMessages, 300*time.Millisecond).Should(BeEmpty())
		})
	})

	Describe("BuildDecisionMessage", func() {
		It("should render approval notifications", func() {
			msg := notification.BuildDecisionMessage(
				events.NewRequestDecidedEvent(7, 42, 9, "approved", "", "maria@example.com"))

			Expect(msg.Subject).To(Equal("Benefit request #7 was approved"))
		})

		It("should render rejection notifications with the reason", func() {
			msg := notification.BuildDecisionMessage(
				events.NewRequestDecidedEvent(7, 42, 9, "rejected", "missing invoice", "maria@example.com"))

			Expect(msg.Subject).To(Equal("Benefit request #7 was rejected"))
			Expect(msg.Body).To(ContainSubstring("missing invoice"))
		})
	})
})
