package comment_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/rmoreas/benefits-portal/internal"
	"github.com/rmoreas/benefits-portal/internal/comment"
	"github.com/rmoreas/benefits-portal/internal/request"
)

func TestComment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Comment Suite")
}

type mockCommentRepository struct {
	comments []*comment.Comment
	nextID   int64
}

func (m *mockCommentRepository) Create(c *comment.Comment) error {
	m.nextID++
	c.ID = m.nextID
	m.comments = append(m.comments, c)
	return nil
}

func (m *mockCommentRepository) GetByRequestID(requestID int64) ([]*comment.Comment, error) {
	var result []*comment.Comment
	for _, c := range m.comments {
		if c.RequestID == requestID {
			result = append(result, c)
		}
	}
	return result, nil
}

type mockRequestAccessor struct {
	err error
}

func (m *mockRequestAccessor) GetRequestByID(ctx context.Context, id, viewerID int64, perms []string) (*request.Request, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &request.Request{ID: id, UserID: 42, Status: request.StatusPending}, nil
}

var _ = Describe("CommentService", func() {
	var (
		svc      *comment.Service
		mockRepo *mockCommentRepository
		accessor *mockRequestAccessor
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = &mockCommentRepository{}
		accessor = &mockRequestAccessor{}
		testLog := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = comment.NewService(mockRepo, accessor, testLog)
		ctx = context.Background()
	})

	Describe("AddComment", func() {
		It("should store a trimmed comment", func() {
			c, err := svc.AddComment(ctx, 7, 42, nil, "  please attach the invoice  ")

			Expect(err).ToNot(HaveOccurred())
			Expect(c.Body).To(Equal("please attach the invoice"))
			Expect(c.RequestID).To(Equal(int64(7)))
			Expect(c.ID).To(BeNumerically(">", 0))
		})

		It("should refuse an empty body", func() {
			c, err := svc.AddComment(ctx, 7, 42, nil, "   ")

			Expect(err).To(HaveOccurred())
			Expect(c).To(BeNil())
		})

		It("should refuse an oversized body", func() {
			c, err := svc.AddComment(ctx, 7, 42, nil, strings.Repeat("a", 2001))

			Expect(err).To(HaveOccurred())
			Expect(c).To(BeNil())
		})

		It("should propagate request access errors", func() {
			accessor.err = internal.ErrUnauthorizedAccess

			c, err := svc.AddComment(ctx, 7, 99, nil, "hello")

			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
			Expect(c).To(BeNil())
		})
	})

	Describe("ListByRequest", func() {
		BeforeEach(func() {
			_, err := svc.AddComment(ctx, 7, 42, nil, "first")
			Expect(err).ToNot(HaveOccurred())
			_, err = svc.AddComment(ctx, 8, 42, nil, "other request")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should only return the request's comments", func() {
			comments, err := svc.ListByRequest(ctx, 7, 42, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(comments).To(HaveLen(1))
			Expect(comments[0].Body).To(Equal("first"))
		})

		It("should propagate access errors", func() {
			accessor.err = internal.ErrRequestNotFound

			comments, err := svc.ListByRequest(ctx, 7, 42, nil)

			Expect(err).To(Equal(internal.ErrRequestNotFound))
			Expect(comments).To(BeNil())
		})
	})
})
