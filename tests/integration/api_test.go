package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/melihemreguler/urlshortener/internal/config"
	"github.com/melihemreguler/urlshortener/internal/database/postgres"
	"github.com/melihemreguler/urlshortener/internal/service"
	"github.com/melihemreguler/urlshortener/internal/shortcode"
	"github.com/melihemreguler/urlshortener/tests"

	api "github.com/melihemreguler/urlshortener/internal/api/http"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const baseURL = "http://sho.rt"

type APITestSuite struct {
	suite.Suite
	pgCont  testcontainers.Container
	cfg     config.Postgres
	db      *sqlx.DB
	urlRepo *postgres.URLRepository
	urlSvc  *service.URLService
	logger  *httplog.Logger
	server  *httptest.Server
	e       *httpexpect.Expect
}

func (suite *APITestSuite) SetupSuite() {
	ctx := context.Background()

	pgUser := "test"
	pgPassword := "test"
	pgDB := "url_shortener"

	var err error
	suite.pgCont, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDB,
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForListeningPort("5432/tcp"),
		},
		Started: true,
	})
	if err != nil {
		suite.T().Fatalf("Failed to start postgres container: %v", err)
	}
	suite.T().Cleanup(func() {
		if err := suite.pgCont.Terminate(ctx); err != nil {
			suite.T().Fatalf("Failed to terminate postgres container: %v", err)
		}
	})

	pgHost, err := suite.pgCont.Host(ctx)
	if err != nil {
		suite.T().Fatalf("Failed to get postgres container host: %v", err)
	}

	pgPort, err := suite.pgCont.MappedPort(ctx, "5432")
	if err != nil {
		suite.T().Fatalf("Failed to get postgres container port: %v", err)
	}

	suite.cfg = config.Postgres{
		User:     pgUser,
		Password: pgPassword,
		Host:     pgHost,
		Port:     pgPort.Int(),
		DB:       pgDB,
		SSLMode:  "disable",
	}

	suite.db, err = sqlx.Connect("pgx", suite.cfg.DSN())
	if err != nil {
		suite.T().Fatalf("Failed to connect to database: %v", err)
	}
	suite.T().Cleanup(func() {
		if err := suite.db.Close(); err != nil {
			suite.T().Fatalf("Failed to close database: %v", err)
		}
	})

	root, err := tests.FindProjectRoot()
	if err != nil {
		suite.T().Fatalf("Failed to get project root: %v", err)
	}

	migrationsPath := filepath.Join("file://"+root, "/migrations")

	m, err := migrate.New(migrationsPath, suite.cfg.DSN())
	if err != nil {
		suite.T().Fatalf("Failed to initialize migrations: %v", err)
	}

	if err := m.Up(); err != nil {
		suite.T().Fatalf("Failed to run migrations: %v", err)
	}
	suite.T().Cleanup(func() {
		if err := m.Down(); err != nil {
			suite.T().Fatalf("Failed to rollback migrations: %v", err)
		}
	})

	suite.urlRepo = postgres.NewURLRepository(suite.db)
	suite.urlSvc = service.NewURLService(suite.urlRepo, shortcode.NewGenerator(shortcode.DefaultLength), baseURL)

	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
	router := api.NewRouter(suite.logger, suite.urlSvc)
	suite.server = httptest.NewServer(router)
	suite.e = httpexpect.Default(suite.T(), suite.server.URL)
}

func (suite *APITestSuite) TearDownSubTest() {
	ctx := context.Background()

	_, err := suite.db.ExecContext(ctx, `TRUNCATE TABLE urls RESTART IDENTITY CASCADE`)
	if err != nil {
		suite.T().Fatalf("Failed to clean urls table: %v", err)
	}
}

func (suite *APITestSuite) createShortURL(longURL string) string {
	resp := suite.e.POST("/api/url").
		WithJSON(map[string]string{"url": longURL}).
		Expect().
		Status(http.StatusOK).
		JSON().Object()

	resp.HasValue("status", "success")

	return resp.Value("data").Object().
		Value("short_url").String().Raw()
}

func (suite *APITestSuite) shortCodeOf(shortURL string) string {
	return strings.TrimPrefix(shortURL, baseURL+"/")
}

func (suite *APITestSuite) rowCount() int64 {
	var count int64
	if err := suite.db.GetContext(context.Background(), &count, `SELECT COUNT(*) FROM urls`); err != nil {
		suite.T().Fatalf("Failed to count url records: %v", err)
	}
	return count
}

func (suite *APITestSuite) TestPing() {
	suite.Run("success", func() {
		suite.e.GET("/ping").
			Expect().
			Status(http.StatusOK).
			Text().IsEqual("pong\n")
	})
}

func (suite *APITestSuite) TestCreateShortURL() {
	const path = "/api/url"

	suite.Run("blank url is rejected", func() {
		resp := suite.e.POST(path).
			WithJSON(map[string]string{"url": ""}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object()

		resp.HasValue("status", "error")
		suite.EqualValues(0, suite.rowCount())
	})

	suite.Run("same url yields same short url", func() {
		first := suite.createShortURL("https://example.com/a")
		second := suite.createShortURL("https://example.com/a")

		suite.Equal(first, second)
		suite.EqualValues(1, suite.rowCount())
	})

	suite.Run("surrounding whitespace is trimmed", func() {
		first := suite.createShortURL("https://example.com/a")
		second := suite.createShortURL("  https://example.com/a  ")

		suite.Equal(first, second)
		suite.EqualValues(1, suite.rowCount())
	})

	suite.Run("distinct urls get distinct codes", func() {
		first := suite.createShortURL("https://example.com/a")
		second := suite.createShortURL("https://example.com/b")

		suite.NotEqual(first, second)
		suite.Len(suite.shortCodeOf(first), shortcode.DefaultLength)
		suite.Len(suite.shortCodeOf(second), shortcode.DefaultLength)
		suite.EqualValues(2, suite.rowCount())
	})
}

func (suite *APITestSuite) TestRedirect() {
	suite.Run("short code not found", func() {
		resp := suite.e.GET("/doesNotExist").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object()

		resp.HasValue("error", "Short code not found")
		resp.HasValue("url", "doesNotExist")
	})

	suite.Run("redirects to the original url", func() {
		const longURL = "https://example.com/landing"
		code := suite.shortCodeOf(suite.createShortURL(longURL))

		suite.e.GET("/"+code).
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusFound).
			Header("Location").IsEqual(longURL)
	})

	suite.Run("each redirect increments the access count", func() {
		code := suite.shortCodeOf(suite.createShortURL("https://example.com/hot"))

		for i := 0; i < 3; i++ {
			suite.e.GET("/"+code).
				WithRedirectPolicy(httpexpect.DontFollowRedirects).
				Expect().
				Status(http.StatusFound)
		}

		var accessCount int64
		err := suite.db.GetContext(context.Background(), &accessCount,
			`SELECT access_count FROM urls WHERE short_code = $1`, code)
		if err != nil {
			suite.T().Fatalf("Failed to retrieve url record: %v", err)
		}

		suite.EqualValues(3, accessCount)
	})
}

func (suite *APITestSuite) TestListURLs() {
	const path = "/api/url"

	suite.Run("empty store", func() {
		resp := suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		data := resp.Value("data").Object()
		data.HasValue("total_elements", 0)
		data.HasValue("total_pages", 0)
		data.HasValue("first", true)
		data.HasValue("last", true)
		data.Value("content").Array().IsEmpty()
	})

	suite.Run("paginates newest first", func() {
		for i := 1; i <= 15; i++ {
			suite.createShortURL(fmt.Sprintf("https://example.com/page/%d", i))
		}

		resp := suite.e.GET(path).
			WithQuery("page", 0).
			WithQuery("size", 10).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		data := resp.Value("data").Object()
		data.HasValue("page", 0)
		data.HasValue("size", 10)
		data.HasValue("total_elements", 15)
		data.HasValue("total_pages", 2)
		data.HasValue("first", true)
		data.HasValue("last", false)
		data.Value("content").Array().Length().IsEqual(10)
		data.Value("content").Array().Value(0).Object().
			HasValue("long_url", "https://example.com/page/15")

		resp = suite.e.GET(path).
			WithQuery("page", 1).
			WithQuery("size", 10).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		data = resp.Value("data").Object()
		data.HasValue("first", false)
		data.HasValue("last", true)
		data.Value("content").Array().Length().IsEqual(5)
	})

	suite.Run("negative page is rejected", func() {
		suite.e.GET(path).
			WithQuery("page", -1).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("status", "error")
	})

	suite.Run("search matches long url and short code", func() {
		suite.createShortURL("https://example.com/Needle")
		code := suite.shortCodeOf(suite.createShortURL("https://example.com/other"))

		resp := suite.e.GET(path).
			WithQuery("q", "needle").
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		data := resp.Value("data").Object()
		data.HasValue("total_elements", 1)
		data.Value("content").Array().Value(0).Object().
			HasValue("long_url", "https://example.com/Needle")

		resp = suite.e.GET(path).
			WithQuery("q", strings.ToUpper(code)).
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		data = resp.Value("data").Object()
		data.HasValue("total_elements", 1)
		data.Value("content").Array().Value(0).Object().
			HasValue("short_code", code)
	})

	suite.Run("blank search term lists everything", func() {
		suite.createShortURL("https://example.com/a")
		suite.createShortURL("https://example.com/b")

		resp := suite.e.GET(path).
			WithQuery("q", "   ").
			Expect().
			Status(http.StatusOK).
			JSON().Object()

		resp.Value("data").Object().
			HasValue("total_elements", 2)
	})
}

func (suite *APITestSuite) TestDeleteShortURL() {
	const path = "/api/url/{id}"

	suite.Run("removes the mapping", func() {
		code := suite.shortCodeOf(suite.createShortURL("https://example.com/doomed"))

		var id int64
		err := suite.db.GetContext(context.Background(), &id,
			`SELECT id FROM urls WHERE short_code = $1`, code)
		if err != nil {
			suite.T().Fatalf("Failed to retrieve url record: %v", err)
		}

		suite.e.DELETE(path, id).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("status", "success")

		suite.EqualValues(0, suite.rowCount())
	})

	suite.Run("unknown id is not an error", func() {
		suite.e.DELETE(path, 12345).
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("status", "success")
	})
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
