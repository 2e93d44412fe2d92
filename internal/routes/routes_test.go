package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/config"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/evidence"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/routes"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/services"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/store"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/worker"
)

type file struct {
	name string
	body []byte
}

var validFields = map[string]string{
	"reporterName":     "Jane",
	"contactInfo":      "jane@example.com",
	"fraudType":        "shopping",
	"fraudTime":        "2024-05-01 18:30",
	"fraudAmount":      "120",
	"fraudDescription": "paid for a phone that never arrived",
	"emergencyContact": "John",
	"emergencyPhone":   "555-0100",
	"agreeTerms":       "true",
}

func submitRequest(fields map[string]string, files ...file) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		Expect(w.WriteField(k, v)).To(Succeed())
	}
	for _, f := range files {
		part, err := w.CreateFormFile("evidence", f.name)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(f.body)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(w.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/api/report", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func without(key string) map[string]string {
	fields := make(map[string]string, len(validFields))
	for k, v := range validFields {
		if k != key {
			fields[k] = v
		}
	}
	return fields
}

func decode(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	var body map[string]any
	Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
	return body
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

var _ = Describe("Routes", func() {
	var (
		app *fiber.App
		dir string
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "fraudwatch-routes-")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		cfg := &config.Config{
			RateLimitSubmit: 100,
			AdminUsername:   "admin",
			AdminPassword:   "correct-horse",
			SessionTTL:      time.Hour,
			JWTSecret:       "routes-test-secret",
			JWTAccessExpiry: time.Hour,
			UploadMaxFiles:  5,
			UploadMaxBytes:  10 << 20,
			UploadMaxBody:   128 << 20,
		}

		st, err := store.NewFileStore(dir)
		Expect(err).NotTo(HaveOccurred())
		local, err := evidence.NewLocalStorage(dir)
		Expect(err).NotTo(HaveOccurred())

		authService, err := services.NewAuthService(cfg)
		Expect(err).NotTo(HaveOccurred())
		reportService := services.NewReportService(st, evidence.NewUploader(local, evidence.Limits{}), nil)
		sessions := middleware.NewSessionStore(cfg)

		app = fiber.New(fiber.Config{BodyLimit: cfg.BodyLimit(), ErrorHandler: handlers.ErrorHandler})
		routes.Setup(app, cfg, sessions,
			handlers.NewAuthHandler(authService, sessions),
			handlers.NewHealthHandler(st, local),
			handlers.NewReportHandler(reportService),
			handlers.NewAdminHandler(reportService, local),
		)
	})

	submit := func(fields map[string]string, files ...file) (*http.Response, map[string]any) {
		resp, err := app.Test(submitRequest(fields, files...), -1)
		Expect(err).NotTo(HaveOccurred())
		return resp, decode(resp)
	}

	get := func(path string, cookies ...*http.Cookie) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	login := func(username, password string) *http.Response {
		body := strings.NewReader(`{"username":"` + username + `","password":"` + password + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/login", body)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Describe("POST /api/report", func() {
		It("creates a report and serves it back without contact details", func() {
			resp, body := submit(validFields)
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
			Expect(body["status"]).To(Equal("success"))
			Expect(body["rejected_files"]).To(BeEmpty())
			id, _ := body["report_id"].(string)
			Expect(id).NotTo(BeEmpty())

			getResp := get("/api/report/" + id)
			Expect(getResp.StatusCode).To(Equal(fiber.StatusOK))
			got := decode(getResp)
			report := got["report"].(map[string]any)
			Expect(report["fraud_type"]).To(Equal("shopping"))
			Expect(report["description"]).To(Equal("paid for a phone that never arrived"))
			Expect(report).NotTo(HaveKey("contact_info"))
			Expect(report).NotTo(HaveKey("emergency_contact"))
			Expect(report).NotTo(HaveKey("emergency_phone"))
		})

		DescribeTable("rejects a missing required field",
			func(field string) {
				resp, body := submit(without(field))
				Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
				Expect(body["error"]).To(BeTrue())
				Expect(body["field"]).To(Equal(field))
				Expect(body["message"]).To(ContainSubstring(field))
			},
			Entry("contactInfo", "contactInfo"),
			Entry("fraudType", "fraudType"),
			Entry("fraudTime", "fraudTime"),
			Entry("fraudDescription", "fraudDescription"),
		)

		It("rejects a submission without consent", func() {
			fields := without("agreeTerms")
			fields["agreeTerms"] = "false"
			resp, body := submit(fields)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(body["field"]).To(Equal("agreeTerms"))
		})

		It("rejects a description over 1000 characters", func() {
			fields := without("fraudDescription")
			fields["fraudDescription"] = strings.Repeat("x", 1001)
			resp, _ := submit(fields)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("accepts the report but drops an executable", func() {
			resp, body := submit(validFields,
				file{"malware.exe", []byte("MZ")},
				file{"screenshot.png", []byte("png")},
			)
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
			Expect(body["rejected_files"]).To(ConsistOf(map[string]any{"name": "malware.exe", "reason": "type"}))

			id := body["report_id"].(string)
			report := decode(get("/api/report/" + id))["report"].(map[string]any)
			files := report["files"].([]any)
			Expect(files).To(HaveLen(1))
			Expect(files[0].(map[string]any)["original_name"]).To(Equal("screenshot.png"))
			Expect(filepath.Join(dir, id+"_screenshot.png")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, id+"_malware.exe")).NotTo(BeAnExistingFile())
		})

		It("drops an 11 MiB pdf", func() {
			resp, body := submit(validFields, file{"huge.pdf", bytes.Repeat([]byte("a"), 11<<20)})
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
			Expect(body["rejected_files"]).To(ConsistOf(map[string]any{"name": "huge.pdf", "reason": "size"}))
		})

		It("accepts the report when more files arrive than the limit allows", func() {
			files := make([]file, 0, 6)
			for i := 1; i <= 6; i++ {
				files = append(files, file{fmt.Sprintf("%d.png", i), bytes.Repeat([]byte{byte('0' + i)}, 9<<20)})
			}

			resp, body := submit(validFields, files...)
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
			Expect(body["rejected_files"]).To(ConsistOf(map[string]any{"name": "6.png", "reason": "limit"}))

			id := body["report_id"].(string)
			report := decode(get("/api/report/" + id))["report"].(map[string]any)
			Expect(report["files"]).To(HaveLen(5))
			Expect(filepath.Join(dir, id+"_5.png")).To(BeAnExistingFile())
			Expect(filepath.Join(dir, id+"_6.png")).NotTo(BeAnExistingFile())
		})

		It("keeps only the first of two files with the same name", func() {
			resp, body := submit(validFields,
				file{"receipt.png", []byte("first")},
				file{"receipt.png", []byte("second")},
			)
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))
			Expect(body["rejected_files"]).To(ConsistOf(map[string]any{"name": "receipt.png", "reason": "duplicate"}))

			data, err := os.ReadFile(filepath.Join(dir, body["report_id"].(string)+"_receipt.png"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("first"))
		})

		It("never reuses an id", func() {
			_, first := submit(validFields)
			_, second := submit(validFields)
			Expect(first["report_id"]).NotTo(Equal(second["report_id"]))
		})
	})

	Describe("public reads", func() {
		It("returns 404 for an unknown report", func() {
			resp := get("/api/report/6a1f7c3e-5b2d-4c8e-9f00-123456789abc")
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
			Expect(decode(resp)["error"]).To(BeTrue())
		})

		It("logs a lookup of an unknown report", func() {
			var logs bytes.Buffer
			previous := slog.Default()
			slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
			DeferCleanup(slog.SetDefault, previous)

			id := "6a1f7c3e-5b2d-4c8e-9f00-123456789abc"
			Expect(get("/api/report/" + id).StatusCode).To(Equal(fiber.StatusNotFound))
			Expect(logs.String()).To(ContainSubstring(`"msg":"report not found"`))
			Expect(logs.String()).To(ContainSubstring(id))
		})

		It("returns 404 for a malformed id", func() {
			Expect(get("/api/report/not-an-id").StatusCode).To(Equal(fiber.StatusNotFound))
		})

		It("lists redacted reports with a count", func() {
			submit(validFields)
			submit(validFields)

			body := decode(get("/api/reports"))
			Expect(body["count"]).To(BeEquivalentTo(2))
			reports := body["reports"].([]any)
			Expect(reports).To(HaveLen(2))
			Expect(reports[0]).NotTo(HaveKey("contact_info"))
		})

		It("serves the fraud types", func() {
			body := decode(get("/api/fraud-types"))
			Expect(body["status"]).To(Equal("success"))
			Expect(body["fraud_types"]).To(HaveLen(8))
		})

		It("serves stats derived from the store", func() {
			submit(validFields, file{"a.png", []byte("a")})
			body := decode(get("/api/stats"))
			stats := body["stats"].(map[string]any)
			Expect(stats["daily_interceptions"]).To(BeEquivalentTo(20))
			Expect(stats["blocked_websites"]).To(BeEquivalentTo(10))
			Expect(stats["user_satisfaction"]).To(BeEquivalentTo(95))
			Expect(stats["protection_hours"]).To(BeEquivalentTo(24))
			Expect(stats["evidence_count"]).To(BeEquivalentTo(1))
		})

		It("answers the liveness probe", func() {
			resp := get("/health")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			body := decode(resp)
			Expect(body["status"]).To(Equal("healthy"))
			Expect(body["timestamp"]).NotTo(BeEmpty())
			Expect(body["store"]).To(Equal("ok"))
		})

		It("reports a failing dependency without its error detail", func() {
			Expect(os.RemoveAll(dir)).To(Succeed())

			resp := get("/health")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			data, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).NotTo(ContainSubstring(dir))

			var body map[string]any
			Expect(json.Unmarshal(data, &body)).To(Succeed())
			Expect(body["status"]).To(Equal("healthy"))
			Expect(body["store"]).To(Equal("unhealthy"))
			Expect(body["evidence"]).To(Equal("unhealthy"))
		})
	})

	Describe("admin gate", func() {
		It("redirects an anonymous visitor to the login page", func() {
			resp := get("/")
			Expect(resp.StatusCode).To(Equal(fiber.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal("/login"))

			Expect(get("/login").StatusCode).To(Equal(fiber.StatusOK))
		})

		It("rejects wrong credentials", func() {
			resp := login("admin", "wrong")
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnauthorized))
			Expect(decode(resp)["message"]).To(Equal("invalid username or password"))
		})

		It("opens the admin page and API after login and closes them on logout", func() {
			resp := login("admin", "correct-horse")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			cookie := sessionCookie(resp)
			Expect(cookie).NotTo(BeNil())
			body := decode(resp)
			Expect(body["access_token"]).NotTo(BeEmpty())

			Expect(get("/", cookie).StatusCode).To(Equal(fiber.StatusOK))
			loginPage := get("/login", cookie)
			Expect(loginPage.StatusCode).To(Equal(fiber.StatusFound))
			Expect(loginPage.Header.Get("Location")).To(Equal("/"))

			_, submitted := submit(validFields)
			admin := get("/api/admin/reports/"+submitted["report_id"].(string), cookie)
			Expect(admin.StatusCode).To(Equal(fiber.StatusOK))
			report := decode(admin)["report"].(map[string]any)
			Expect(report["contact_info"]).To(Equal("jane@example.com"))

			logout := get("/logout", cookie)
			Expect(logout.StatusCode).To(Equal(fiber.StatusFound))
			Expect(logout.Header.Get("Location")).To(Equal("/login"))

			Expect(get("/", cookie).StatusCode).To(Equal(fiber.StatusFound))
			Expect(get("/api/admin/reports", cookie).StatusCode).To(Equal(fiber.StatusUnauthorized))
		})

		It("accepts the bearer token for the admin API", func() {
			token := decode(login("admin", "correct-horse"))["access_token"].(string)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/reports", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			req = httptest.NewRequest(http.MethodGet, "/api/admin/reports", nil)
			req.Header.Set("Authorization", "Bearer not-a-token")
			resp, err = app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnauthorized))
		})

		It("refuses the admin API without credentials", func() {
			Expect(get("/api/admin/reports").StatusCode).To(Equal(fiber.StatusUnauthorized))
		})

		It("lets an admin download evidence and waits for extracted text", func() {
			cookie := sessionCookie(login("admin", "correct-horse"))
			_, body := submit(validFields, file{"statement.pdf", []byte("%PDF-1.4 body")})
			id := body["report_id"].(string)
			saved := id + "_statement.pdf"

			resp := get("/api/admin/reports/"+id+"/evidence/"+saved, cookie)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Disposition")).To(ContainSubstring("statement.pdf"))
			data, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("%PDF-1.4 body"))

			Expect(get("/api/admin/reports/"+id+"/evidence/"+saved+"/text", cookie).StatusCode).
				To(Equal(fiber.StatusNotFound))

			Expect(os.WriteFile(filepath.Join(dir, saved+worker.TextSuffix), []byte("extracted"), 0o600)).To(Succeed())
			text := get("/api/admin/reports/"+id+"/evidence/"+saved+"/text", cookie)
			Expect(text.StatusCode).To(Equal(fiber.StatusOK))
			data, err = io.ReadAll(text.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("extracted"))

			Expect(get("/api/admin/reports/"+id+"/evidence/"+id+"_other.pdf", cookie).StatusCode).
				To(Equal(fiber.StatusNotFound))
		})
	})
})
