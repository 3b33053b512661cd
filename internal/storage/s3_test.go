package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("S3Uploader", func() {
	var (
		server       *httptest.Server
		receivedPath string
		receivedAuth string
		receivedBody []byte
	)

	newUploader := func() *S3Uploader {
		uploader, err := NewS3Uploader(S3Config{
			Endpoint:   server.URL,
			Region:     "auto",
			Bucket:     "benefits",
			AccessKey:  "test-access",
			SecretKey:  "test-secret",
			HTTPClient: server.Client(),
		})
		Expect(err).NotTo(HaveOccurred())
		return uploader
	}

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedPath = r.URL.Path
			receivedAuth = r.Header.Get("Authorization")
			receivedBody, _ = io.ReadAll(r.Body)
			w.Header().Set("ETag", `"abc123"`)
			w.WriteHeader(http.StatusOK)
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("NewS3Uploader", func() {
		It("should reject a config without a bucket", func() {
			_, err := NewS3Uploader(S3Config{
				Endpoint:  "https://s3.example.com",
				Region:    "auto",
				AccessKey: "a",
				SecretKey: "b",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject an endpoint without a scheme", func() {
			_, err := NewS3Uploader(S3Config{
				Endpoint:  "s3.example.com",
				Region:    "auto",
				Bucket:    "benefits",
				AccessKey: "a",
				SecretKey: "b",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Upload", func() {
		It("should PUT the object under the bucket prefix with a SigV4 authorization", func() {
			uploader := newUploader()

			result, err := uploader.Upload(context.Background(), UploadInput{
				Key:         "invoices/42/nota-fiscal.pdf",
				Body:        []byte("pdf bytes"),
				ContentType: "application/pdf",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ETag).To(Equal("abc123"))
			Expect(receivedPath).To(Equal("/benefits/invoices/42/nota-fiscal.pdf"))
			Expect(receivedAuth).To(HavePrefix("AWS4-HMAC-SHA256 Credential=test-access/"))
			Expect(receivedBody).To(Equal([]byte("pdf bytes")))
		})

		It("should prefer the public domain in the returned URL", func() {
			uploader, err := NewS3Uploader(S3Config{
				Endpoint:     server.URL,
				Region:       "auto",
				Bucket:       "benefits",
				AccessKey:    "test-access",
				SecretKey:    "test-secret",
				PublicDomain: "https://cdn.example.com",
				HTTPClient:   server.Client(),
			})
			Expect(err).NotTo(HaveOccurred())

			result, err := uploader.Upload(context.Background(), UploadInput{
				Key:  "invoices/42/a.pdf",
				Body: []byte("x"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.URL).To(Equal("https://cdn.example.com/invoices/42/a.pdf"))
		})

		It("should refuse an empty body", func() {
			uploader := newUploader()

			result, err := uploader.Upload(context.Background(), UploadInput{Key: "k"})

			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})

		It("should surface non-2xx responses as errors", func() {
			failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "access denied", http.StatusForbidden)
			}))
			defer failing.Close()

			uploader, err := NewS3Uploader(S3Config{
				Endpoint:   failing.URL,
				Region:     "auto",
				Bucket:     "benefits",
				AccessKey:  "a",
				SecretKey:  "b",
				HTTPClient: failing.Client(),
			})
			Expect(err).NotTo(HaveOccurred())

			result, err := uploader.Upload(context.Background(), UploadInput{
				Key:  "k",
				Body: []byte("x"),
			})

			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})
	})

	Describe("NoopUploader", func() {
		It("should always fail", func() {
			_, err := NoopUploader{}.Upload(context.Background(), UploadInput{Key: "k", Body: []byte("x")})
			Expect(err).To(HaveOccurred())
		})
	})
})
