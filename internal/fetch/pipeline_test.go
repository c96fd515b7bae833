package fetch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/rockdeck/internal/credits"
	"github.com/kpauljoseph/rockdeck/internal/fetch"
	"github.com/kpauljoseph/rockdeck/pkg/logger"
)

func fetchTestLogger() *logger.Logger {
	return logger.New(
		logger.WithOutput(GinkgoWriter),
		logger.WithPrefix("[fetch-test] "),
		logger.WithFlags(0),
	)
}

var _ = Describe("Pipeline", func() {
	var (
		outDir string
		ctx    context.Context
		server *httptest.Server
		table  *credits.Table
	)

	BeforeEach(func() {
		var err error
		outDir, err = os.MkdirTemp("", "fetch-test-*")
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		table = credits.NewTable()
	})

	AfterEach(func() {
		os.RemoveAll(outDir)
		if server != nil {
			server.Close()
		}
	})

	newPipeline := func(handler http.Handler) (*fetch.Pipeline, *fetch.Client) {
		server = httptest.NewServer(handler)
		client := fetch.NewClient("test-key", "test-cx", fetchTestLogger())
		client.SetSearchURL(server.URL + "/search")
		return fetch.NewPipeline(client, table, fetchTestLogger()), client
	}

	searchItems := func(base string, links ...string) []map[string]string {
		items := make([]map[string]string, 0, len(links))
		for _, l := range links {
			items = append(items, map[string]string{"link": base + l})
		}
		return items
	}

	It("downloads, converts, and credits each search hit", func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Query().Get("searchType")).To(Equal("image"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"items": searchItems(server.URL, "/img/red.jpg", "/img/green.jpg"),
			})
		})
		mux.HandleFunc("/img/red.jpg", func(w http.ResponseWriter, r *http.Request) {
			w.Write(testImageBytes(4, 4, color.RGBA{R: 255, A: 255}, encodeJPEG))
		})
		mux.HandleFunc("/img/green.jpg", func(w http.ResponseWriter, r *http.Request) {
			w.Write(testImageBytes(4, 4, color.RGBA{G: 255, A: 255}, encodeJPEG))
		})

		pipeline, _ := newPipeline(mux)
		summary, err := pipeline.Run(ctx, []string{"Granite"}, fetch.Options{
			OutDir:      outDir,
			Limit:       2,
			QuerySuffix: "rock sample",
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(summary.TotalSaved).To(Equal(2))
		Expect(summary.SavedPerType["Granite"]).To(Equal(2))
		Expect(filepath.Join(outDir, "Granite", "Granite_001.png")).To(BeAnExistingFile())
		Expect(filepath.Join(outDir, "Granite", "Granite_002.png")).To(BeAnExistingFile())

		Expect(table.Len()).To(Equal(2))
		rec, ok := table.Lookup("Granite/Granite_001.png")
		Expect(ok).To(BeTrue())
		Expect(rec.Rock).To(Equal("Granite"))
		Expect(rec.URL).To(HaveSuffix("/img/red.jpg"))
	})

	It("skips failed downloads and unparseable images without aborting", func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"items": searchItems(server.URL, "/img/missing.jpg", "/img/garbage.jpg", "/img/good.jpg"),
			})
		})
		mux.HandleFunc("/img/missing.jpg", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		mux.HandleFunc("/img/garbage.jpg", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not an image at all")
		})
		mux.HandleFunc("/img/good.jpg", func(w http.ResponseWriter, r *http.Request) {
			w.Write(testImageBytes(4, 4, color.RGBA{B: 255, A: 255}, encodeJPEG))
		})

		pipeline, _ := newPipeline(mux)
		summary, err := pipeline.Run(ctx, []string{"Basalt"}, fetch.Options{OutDir: outDir, Limit: 3})
		Expect(err).NotTo(HaveOccurred())

		Expect(summary.TotalSaved).To(Equal(1))
		Expect(summary.TotalSkipped).To(Equal(2))
		// Numbering stays contiguous: the surviving image is _001.
		Expect(filepath.Join(outDir, "Basalt", "Basalt_001.png")).To(BeAnExistingFile())
	})

	It("drops duplicate image content within one rock type", func() {
		same := testImageBytes(4, 4, color.RGBA{R: 7, G: 7, B: 7, A: 255}, encodePNG)
		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"items": searchItems(server.URL, "/img/a.png", "/img/b.png"),
			})
		})
		mux.HandleFunc("/img/a.png", func(w http.ResponseWriter, r *http.Request) { w.Write(same) })
		mux.HandleFunc("/img/b.png", func(w http.ResponseWriter, r *http.Request) { w.Write(same) })

		pipeline, _ := newPipeline(mux)
		summary, err := pipeline.Run(ctx, []string{"Slate"}, fetch.Options{OutDir: outDir, Limit: 2})
		Expect(err).NotTo(HaveOccurred())

		Expect(summary.TotalSaved).To(Equal(1))
		Expect(summary.TotalSkipped).To(Equal(1))
	})

	It("does not pause after the final page or download", func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"items": searchItems(server.URL, "/img/only.jpg"),
			})
		})
		mux.HandleFunc("/img/only.jpg", func(w http.ResponseWriter, r *http.Request) {
			w.Write(testImageBytes(4, 4, color.RGBA{R: 9, A: 255}, encodeJPEG))
		})

		pipeline, _ := newPipeline(mux)
		started := time.Now()
		summary, err := pipeline.Run(ctx, []string{"Granite"}, fetch.Options{OutDir: outDir, Limit: 1})
		elapsed := time.Since(started)

		Expect(err).NotTo(HaveOccurred())
		Expect(summary.TotalSaved).To(Equal(1))
		// A one-page, one-download run has nothing to pace; it must finish
		// well inside a single pause interval.
		Expect(elapsed).To(BeNumerically("<", fetch.PauseBetweenDownloads))
	})

	It("continues with an empty result set when the search API errors", func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})

		pipeline, _ := newPipeline(mux)
		summary, err := pipeline.Run(ctx, []string{"Granite", "Basalt"}, fetch.Options{OutDir: outDir, Limit: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.TotalSaved).To(BeZero())
	})

	It("stops between items when the context is cancelled", func() {
		cancelledCtx, cancel := context.WithCancel(ctx)
		cancel()

		mux := http.NewServeMux()
		pipeline, _ := newPipeline(mux)
		_, err := pipeline.Run(cancelledCtx, []string{"Granite"}, fetch.Options{OutDir: outDir, Limit: 1})
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Client search paging", func() {
	It("requests successive pages until the limit is met", func() {
		var starts []string
		var server *httptest.Server
		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			starts = append(starts, r.URL.Query().Get("start"))
			items := make([]map[string]string, 0, 10)
			for i := 0; i < 10; i++ {
				items = append(items, map[string]string{"link": fmt.Sprintf("%s/img/%s-%d.png", server.URL, r.URL.Query().Get("start"), i)})
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
		})
		server = httptest.NewServer(mux)
		defer server.Close()

		client := fetch.NewClient("k", "cx", fetchTestLogger())
		client.SetSearchURL(server.URL + "/search")

		results := client.Search(context.Background(), "Granite rock sample", 15, "", 0)
		Expect(results).To(HaveLen(15))
		Expect(starts).To(Equal([]string{"1", "11"}))
	})

	It("passes the rights filter through to the API", func() {
		var gotRights string
		mux := http.NewServeMux()
		mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
			gotRights = r.URL.Query().Get("rights")
			json.NewEncoder(w).Encode(map[string]interface{}{"items": []map[string]string{}})
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := fetch.NewClient("k", "cx", fetchTestLogger())
		client.SetSearchURL(server.URL + "/search")

		client.Search(context.Background(), "Granite", 5, "cc_publicdomain|cc_attribute", 0)
		Expect(gotRights).To(Equal("cc_publicdomain|cc_attribute"))
	})

	It("falls back to the thumbnail link when the main link is absent", func() {
		var result fetch.Result
		Expect(json.Unmarshal([]byte(`{"image":{"thumbnailLink":"https://thumb.example/t.png"}}`), &result)).To(Succeed())
		Expect(result.DownloadURL()).To(Equal("https://thumb.example/t.png"))
	})
})

var _ = Describe("DefaultRockTypes", func() {
	It("covers the 22 built-in query types", func() {
		Expect(fetch.DefaultRockTypes).To(HaveLen(22))
		Expect(fetch.DefaultRockTypes).To(ContainElements("Granite", "Basalt", "Tuff"))
	})
})

var _ = It("keeps pipeline pacing fixed", func() {
	Expect(fetch.PauseBetweenAPICalls.Milliseconds()).To(BeNumerically(">", 0))
	Expect(fetch.PauseBetweenDownloads.Milliseconds()).To(BeNumerically(">", 0))
})

var _ = Describe("output buffer sanity", func() {
	It("normalized PNG bytes start with the PNG signature", func() {
		data := testImageBytes(3, 3, color.RGBA{A: 255}, encodePNG)
		out, _, err := fetch.NormalizePNG(data, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(bytes.HasPrefix(out, []byte("\x89PNG"))).To(BeTrue())
	})
})
