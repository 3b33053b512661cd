package request_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/rmoreas/benefits-portal/internal"
	"github.com/rmoreas/benefits-portal/internal/core/events"
	"github.com/rmoreas/benefits-portal/internal/request"
)

func TestRequest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Request Suite")
}

// Mock repository for testing
type mockRequestRepository struct {
	requests       map[int64]*request.Request
	owners         map[int64]string // request id -> owner email
	createError    error
	getError       error
	updateError    error
	updateRows     int64
	updateRowsSet  bool
	decisionCalled bool
	nextID         int64
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{
		requests: make(map[int64]*request.Request),
		owners:   make(map[int64]string),
		nextID:   1,
	}
}

func (m *mockRequestRepository) Create(req *request.Request) error {
	if m.createError != nil {
		return m.createError
	}
	req.ID = m.nextID
	m.nextID++
	m.requests[req.ID] = req
	return nil
}

func (m *mockRequestRepository) GetByID(id int64) (*request.Request, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	req, exists := m.requests[id]
	if !exists {
		return nil, internal.ErrRequestNotFound
	}
	return req, nil
}

func (m *mockRequestRepository) GetWithOwner(id int64) (*request.RequestWithOwner, error) {
	req, err := m.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &request.RequestWithOwner{
		Request:    *req,
		OwnerName:  "Owner",
		OwnerEmail: m.owners[id],
	}, nil
}

func (m *mockRequestRepository) GetByUserID(userID int64, limit, offset int) ([]*request.Request, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var result []*request.Request
	for _, req := range m.requests {
		if req.UserID == userID {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockRequestRepository) GetAllWithOwner(polo string, limit, offset int) ([]*request.RequestWithOwner, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var result []*request.RequestWithOwner
	for id, req := range m.requests {
		if polo != "" && req.Polo != polo {
			continue
		}
		result = append(result, &request.RequestWithOwner{
			Request:    *req,
			OwnerEmail: m.owners[id],
		})
	}
	return result, nil
}

func (m *mockRequestRepository) UpdateDecision(id int64, status string, decidedBy int64, decidedAt time.Time, reason *string) (int64, error) {
	m.decisionCalled = true
	if m.updateError != nil {
		return 0, m.updateError
	}
	if m.updateRowsSet {
		return m.updateRows, nil
	}
	req, exists := m.requests[id]
	if !exists || req.Status != request.StatusPending {
		return 0, nil
	}
	req.Status = status
	req.ApprovedBy = &decidedBy
	req.ApprovedAt = &decidedAt
	req.RejectionReason = reason
	return 1, nil
}

// Mock event publisher that records published events
type mockEventPublisher struct {
	published []events.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

// Mock audit recorder that records entries
type mockAuditRecorder struct {
	actions []string
}

func (m *mockAuditRecorder) Record(ctx context.Context, actorID int64, action string, requestID *int64, detail string) {
	m.actions = append(m.actions, action)
}

var managerPerms = []string{"view_all_requests", "approve_requests", "reject_requests"}
var requesterPerms = []string{"create_requests", "view_own_requests"}

var _ = Describe("RequestService", func() {
	var (
		svc       *request.Service
		mockRepo  *mockRequestRepository
		mockBus   *mockEventPublisher
		mockAudit *mockAuditRecorder
		testLog   *slog.Logger
		ctx       context.Context
	)

	BeforeEach(func() {
		mockRepo = newMockRequestRepository()
		mockBus = &mockEventPublisher{}
		mockAudit = &mockAuditRecorder{}
		testLog = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = request.NewService(mockRepo, mockBus, mockAudit, testLog)
		ctx = context.Background()
	})

	validDTO := func() request.CreateRequestDTO {
		return request.CreateRequestDTO{
			BenefitType: request.TypePsicologico,
			Description: "Weekly therapy sessions during Q3",
			AmountCents: 150000,
			Polo:        "campinas",
		}
	}

	Describe("CreateRequest", func() {
		Context("when the payload is valid", func() {
			It("should create the request with pending status", func() {
				// Given
				userID := int64(42)

				// When
				result, err := svc.CreateRequest(ctx, userID, validDTO())

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(result).ToNot(BeNil())
				Expect(result.UserID).To(Equal(userID))
				Expect(result.Status).To(Equal(request.StatusPending))
				Expect(result.ID).To(BeNumerically(">", 0))
			})

			It("should publish a created event and record an audit entry", func() {
				// When
				_, err := svc.CreateRequest(ctx, 42, validDTO())

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(mockBus.published).To(HaveLen(1))
				Expect(mockBus.published[0].EventType()).To(Equal(events.EventTypeRequestCreated))
				Expect(mockAudit.actions).To(ContainElement("request.create"))
			})

			It("should keep dependents in submission order", func() {
				// Given
				dto := validDTO()
				dto.Dependents = []request.Dependent{
					{Name: "Ana", Relationship: "filha"},
					{Name: "Bruno", Relationship: "conjuge"},
				}

				// When
				result, err := svc.CreateRequest(ctx, 42, dto)

				// Then
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Dependents).To(HaveLen(2))
				Expect(result.Dependents[0].Name).To(Equal("Ana"))
			})
		})

		Context("when validation fails", func() {
			It("should reject an unknown benefit type", func() {
				// Given
				dto := validDTO()
				dto.BenefitType = "massagem"

				// When
				result, err := svc.CreateRequest(ctx, 42, dto)

				// Then
				Expect(err).To(HaveOccurred())
				Expect(result).To(BeNil())
			})

			It("should reject an unknown polo", func() {
				dto := validDTO()
				dto.Polo = "orbita"

				result, err := svc.CreateRequest(ctx, 42, dto)

				Expect(err).To(HaveOccurred())
				Expect(result).To(BeNil())
			})

			It("should reject a non-positive amount", func() {
				dto := validDTO()
				dto.AmountCents = 0

				result, err := svc.CreateRequest(ctx, 42, dto)

				Expect(err).To(HaveOccurred())
				Expect(result).To(BeNil())
			})

			It("should reject a too-short description", func() {
				dto := validDTO()
				dto.Description = "short"

				result, err := svc.CreateRequest(ctx, 42, dto)

				Expect(err).To(HaveOccurred())
				Expect(result).To(BeNil())
			})

			It("should not publish events for invalid payloads", func() {
				dto := validDTO()
				dto.AmountCents = -5

				_, err := svc.CreateRequest(ctx, 42, dto)

				Expect(err).To(HaveOccurred())
				Expect(mockBus.published).To(BeEmpty())
			})
		})
	})

	Describe("GetRequestByID", func() {
		var ownRequest *request.Request

		BeforeEach(func() {
			var err error
			ownRequest, err = svc.CreateRequest(ctx, 42, validDTO())
			Expect(err).ToNot(HaveOccurred())
		})

		It("should return the request to its owner", func() {
			result, err := svc.GetRequestByID(ctx, ownRequest.ID, 42, requesterPerms)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(Equal(ownRequest.ID))
		})

		It("should return the request to a manager", func() {
			result, err := svc.GetRequestByID(ctx, ownRequest.ID, 99, managerPerms)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).To(Equal(ownRequest.ID))
		})

		It("should deny another requester", func() {
			result, err := svc.GetRequestByID(ctx, ownRequest.ID, 77, requesterPerms)

			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
			Expect(result).To(BeNil())
		})

		It("should return not found for missing requests", func() {
			result, err := svc.GetRequestByID(ctx, 9999, 42, requesterPerms)

			Expect(err).To(Equal(internal.ErrRequestNotFound))
			Expect(result).To(BeNil())
		})
	})

	Describe("ListAll", func() {
		BeforeEach(func() {
			dto := validDTO()
			_, err := svc.CreateRequest(ctx, 1, dto)
			Expect(err).ToNot(HaveOccurred())

			dto.Polo = "recife"
			_, err = svc.CreateRequest(ctx, 2, dto)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should return everything to a manager", func() {
			result, err := svc.ListAll(ctx, "", 20, 0, managerPerms)

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(2))
		})

		It("should filter by polo", func() {
			result, err := svc.ListAll(ctx, "recife", 20, 0, managerPerms)

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].Polo).To(Equal("recife"))
		})

		It("should refuse an unknown polo filter", func() {
			result, err := svc.ListAll(ctx, "orbita", 20, 0, managerPerms)

			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})

		It("should deny a plain requester", func() {
			result, err := svc.ListAll(ctx, "", 20, 0, requesterPerms)

			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
			Expect(result).To(BeNil())
		})
	})

	Describe("ApproveRequest", func() {
		var pending *request.Request

		BeforeEach(func() {
			var err error
			pending, err = svc.CreateRequest(ctx, 42, validDTO())
			Expect(err).ToNot(HaveOccurred())
			mockRepo.owners[pending.ID] = "owner@example.com"
			mockBus.published = nil
			mockAudit.actions = nil
		})

		It("should approve a pending request and stamp the decision", func() {
			// When
			result, err := svc.ApproveRequest(ctx, pending.ID, 7, managerPerms)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(request.StatusApproved))
			Expect(result.ApprovedBy).ToNot(BeNil())
			Expect(*result.ApprovedBy).To(Equal(int64(7)))
			Expect(result.ApprovedAt).ToNot(BeNil())
			Expect(result.RejectionReason).To(BeNil())
		})

		It("should keep the dependents on the decided response", func() {
			dto := validDTO()
			dto.Dependents = []request.Dependent{{Name: "Ana", Relationship: "filha"}}
			withDeps, err := svc.CreateRequest(ctx, 42, dto)
			Expect(err).ToNot(HaveOccurred())
			mockRepo.owners[withDeps.ID] = "owner@example.com"

			result, err := svc.ApproveRequest(ctx, withDeps.ID, 7, managerPerms)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Dependents).To(HaveLen(1))
			Expect(result.Dependents[0].Name).To(Equal("Ana"))
		})

		It("should publish a decided event carrying the owner email", func() {
			_, err := svc.ApproveRequest(ctx, pending.ID, 7, managerPerms)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBus.published).To(HaveLen(1))
			decided, ok := mockBus.published[0].(*events.RequestDecidedEvent)
			Expect(ok).To(BeTrue())
			Expect(decided.Action).To(Equal("approved"))
			Expect(decided.RecipientEmail).To(Equal("owner@example.com"))
		})

		It("should deny a requester without manager permissions", func() {
			result, err := svc.ApproveRequest(ctx, pending.ID, 42, requesterPerms)

			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
			Expect(result).To(BeNil())
			Expect(mockRepo.decisionCalled).To(BeFalse())
		})

		It("should refuse to re-decide an already approved request", func() {
			_, err := svc.ApproveRequest(ctx, pending.ID, 7, managerPerms)
			Expect(err).ToNot(HaveOccurred())

			result, err := svc.ApproveRequest(ctx, pending.ID, 8, managerPerms)

			Expect(err).To(Equal(internal.ErrRequestAlreadyClosed))
			Expect(result).To(BeNil())
		})

		It("should report a conflict when a concurrent decision wins the race", func() {
			// Given: repo reports pending but the guarded update matches no rows
			mockRepo.updateRowsSet = true
			mockRepo.updateRows = 0

			// When
			result, err := svc.ApproveRequest(ctx, pending.ID, 7, managerPerms)

			// Then
			Expect(err).To(Equal(internal.ErrRequestAlreadyClosed))
			Expect(result).To(BeNil())
		})
	})

	Describe("RejectRequest", func() {
		var pending *request.Request

		BeforeEach(func() {
			var err error
			pending, err = svc.CreateRequest(ctx, 42, validDTO())
			Expect(err).ToNot(HaveOccurred())
			mockRepo.owners[pending.ID] = "owner@example.com"
			mockBus.published = nil
		})

		It("should reject a pending request with the reason recorded", func() {
			// When
			result, err := svc.RejectRequest(ctx, pending.ID, 7, "missing invoice", managerPerms)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status).To(Equal(request.StatusRejected))
			Expect(result.RejectionReason).ToNot(BeNil())
			Expect(*result.RejectionReason).To(Equal("missing invoice"))
		})

		It("should refuse a rejection without a reason and leave the request untouched", func() {
			// When
			result, err := svc.RejectRequest(ctx, pending.ID, 7, "", managerPerms)

			// Then
			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
			Expect(mockRepo.decisionCalled).To(BeFalse())

			stored, err := svc.GetRequestByID(ctx, pending.ID, 42, requesterPerms)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.Status).To(Equal(request.StatusPending))
		})

		It("should publish a decided event with the rejection reason", func() {
			_, err := svc.RejectRequest(ctx, pending.ID, 7, "missing invoice", managerPerms)

			Expect(err).ToNot(HaveOccurred())
			Expect(mockBus.published).To(HaveLen(1))
			decided, ok := mockBus.published[0].(*events.RequestDecidedEvent)
			Expect(ok).To(BeTrue())
			Expect(decided.Action).To(Equal("rejected"))
			Expect(decided.RejectionReason).To(Equal("missing invoice"))
		})

		It("should refuse to reject an already rejected request", func() {
			_, err := svc.RejectRequest(ctx, pending.ID, 7, "missing invoice", managerPerms)
			Expect(err).ToNot(HaveOccurred())

			result, err := svc.RejectRequest(ctx, pending.ID, 8, "other reason", managerPerms)

			Expect(err).To(Equal(internal.ErrRequestAlreadyClosed))
			Expect(result).To(BeNil())
		})
	})
})
