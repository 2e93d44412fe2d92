package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
)

// setenv sets a variable for the current test only.
func setenv(key, value string) {
	old, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

var _ = Describe("Config", func() {
	It("falls back to defaults", func() {
		for _, key := range []string{"STORE_DRIVER", "UPLOAD_MAX_FILES", "UPLOAD_MAX_BYTES", "UPLOAD_ALLOWED_EXT", "SESSION_TTL"} {
			setenv(key, "")
		}
		cfg := config.Load()
		Expect(cfg.StoreDriver).To(Equal("file"))
		Expect(cfg.UploadMaxFiles).To(Equal(5))
		Expect(cfg.UploadMaxBytes).To(Equal(int64(10 << 20)))
		Expect(cfg.UploadAllowedExts).To(Equal([]string{".jpg", ".jpeg", ".png", ".pdf", ".doc", ".docx"}))
		Expect(cfg.SessionTTL).To(Equal(8 * time.Hour))
	})

	It("reads the environment", func() {
		setenv("STORE_DRIVER", "bolt")
		setenv("UPLOAD_ALLOWED_EXT", " .PDF , .png,")
		setenv("SESSION_TTL", "30m")
		setenv("TELEGRAM_CHAT_ID", "-1001234")
		setenv("S3_USE_SSL", "true")

		cfg := config.Load()
		Expect(cfg.StoreDriver).To(Equal("bolt"))
		Expect(cfg.UploadAllowedExts).To(Equal([]string{".pdf", ".png"}))
		Expect(cfg.SessionTTL).To(Equal(30 * time.Minute))
		Expect(cfg.TelegramChatID).To(Equal(int64(-1001234)))
		Expect(cfg.S3UseSSL).To(BeTrue())
	})

	It("ignores unparsable durations and numbers", func() {
		setenv("SESSION_TTL", "forever")
		setenv("UPLOAD_MAX_FILES", "many")
		cfg := config.Load()
		Expect(cfg.SessionTTL).To(Equal(8 * time.Hour))
		Expect(cfg.UploadMaxFiles).To(Equal(5))
	})

	DescribeTable("replaces non-positive limits with defaults",
		func(value string) {
			for _, key := range []string{"UPLOAD_MAX_FILES", "UPLOAD_MAX_BYTES", "UPLOAD_MAX_BODY", "RATE_LIMIT_SUBMIT", "WORKER_CONCURRENCY"} {
				setenv(key, value)
			}
			cfg := config.Load()
			Expect(cfg.UploadMaxFiles).To(Equal(5))
			Expect(cfg.UploadMaxBytes).To(Equal(int64(10 << 20)))
			Expect(cfg.UploadMaxBody).To(Equal(int64(128 << 20)))
			Expect(cfg.RateLimitSubmit).To(Equal(10))
			Expect(cfg.WorkerConcurrency).To(Equal(4))
			Expect(cfg.BodyLimit()).To(Equal(128 << 20))
		},
		Entry("zero", "0"),
		Entry("negative", "-5"),
	)

	Describe("Validate", func() {
		It("lists every missing secret", func() {
			err := (&config.Config{StoreDriver: "postgres"}).Validate()
			Expect(err).To(MatchError(ContainSubstring("ADMIN_USERNAME")))
			Expect(err).To(MatchError(ContainSubstring("ADMIN_PASSWORD")))
			Expect(err).To(MatchError(ContainSubstring("JWT_SECRET")))
			Expect(err).To(MatchError(ContainSubstring("DB_HOST")))
		})

		It("passes with credentials from either source", func() {
			cfg := &config.Config{AdminUsername: "admin", AdminPasswordHash: "$2a$10$x", JWTSecret: "s", StoreDriver: "file"}
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Describe("BodyLimit", func() {
		It("leaves room for surplus files beyond the upload limit", func() {
			cfg := &config.Config{UploadMaxFiles: 5, UploadMaxBytes: 10 << 20, UploadMaxBody: 128 << 20}
			Expect(cfg.BodyLimit()).To(Equal(128 << 20))
		})

		It("never drops below a full set of uploads", func() {
			cfg := &config.Config{UploadMaxFiles: 5, UploadMaxBytes: 10 << 20, UploadMaxBody: 1 << 20}
			Expect(cfg.BodyLimit()).To(Equal(51 << 20))
		})
	})
})
