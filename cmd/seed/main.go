// Command seed は管理画面の動作確認用に送信失敗記録をローカル MongoDB へ投入する。
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
	mongodoc "github.com/baumsteiger-allgaeu/site/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envFile    string
	count      int
	resolved   int
	drop       bool
	randomSeed int64
}

var (
	sampleNames  = []string{"Anna Muster", "Bernd Köhler", "Clara Weiß", "Dieter Brandl", "Eva Rauch", "Florian Gerster"}
	sampleTopics = []string{
		"Wir haben eine alte Linde im Garten, die dringend einen Kronenschnitt braucht.",
		"Können Sie sich eine Eiche ansehen? Nach dem Sturm hängt ein großer Ast über dem Dach.",
		"Wir möchten eine Streuobstwiese anlegen und suchen Beratung.",
		"Bitte um ein Angebot für die Fällung einer Fichte neben der Garage.",
		"Für unsere Gemeinde benötigen wir ein Baumkataster.",
	}
	sampleErrors = []string{
		"smtp send via smtp.example.de:587: dial tcp: i/o timeout",
		"smtp send via smtp.example.de:587: 535 5.7.8 authentication failed",
		"smtp send via smtp.example.de:587: 451 4.3.0 temporary local problem",
	}
	sampleAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Gecko/20100101 Firefox/128.0",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148",
	}
)

func main() {
	opts := parseFlags()

	if opts.envFile != "" {
		if err := loadEnvFile(opts.envFile); err != nil {
			log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
		}
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "baumsteiger")
	collection := envOrDefault("FAILED_DELIVERY_COLLECTION", "failed_deliveries")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	repo := mongodoc.NewFailedDeliveryRepository(client.Database(dbName), collection)

	if opts.drop {
		if err := repo.Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", collection, err)
		}
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	deliveries := generateDeliveries(rng, opts.count, opts.resolved, time.Now().UTC())
	for i := range deliveries {
		if err := repo.Record(ctx, &deliveries[i]); err != nil {
			log.Fatalf("送信失敗データの挿入に失敗しました: %v", err)
		}
		if deliveries[i].Status == domain.DeliveryResolved {
			if _, err := repo.UpdateStatus(ctx, deliveries[i].ID, domain.DeliveryResolved, deliveries[i].CreatedAt.Add(3*time.Hour)); err != nil {
				log.Fatalf("ステータス更新に失敗しました: %v", err)
			}
		}
	}

	log.Printf("Seed 完了: failedDeliveries=%d (resolved=%d)", len(deliveries), countResolved(deliveries))
	log.Printf("Mongo: %s / %s.%s", mongoURI, dbName, collection)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env-file", "", "読み込む env ファイル (例: ../env/local.env)")
	flag.IntVar(&opts.count, "count", 12, "生成する送信失敗記録の件数")
	flag.IntVar(&opts.resolved, "resolved", 4, "そのうち対応済みにする件数")
	flag.BoolVar(&opts.drop, "drop", true, "既存コレクションを削除してから投入する")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "乱数シード（再現用）")
	flag.Parse()

	if opts.count <= 0 {
		log.Fatal("count は 1 以上を指定してください")
	}
	if opts.resolved < 0 {
		opts.resolved = 0
	}
	if opts.resolved > opts.count {
		opts.resolved = opts.count
	}
	return opts
}

// generateDeliveries は新しい順に並んだ送信失敗記録を作り、古いものから resolved 件を対応済みにする。
func generateDeliveries(rng *rand.Rand, count, resolved int, now time.Time) []domain.FailedDelivery {
	out := make([]domain.FailedDelivery, 0, count)
	for i := 0; i < count; i++ {
		name := sampleNames[rng.Intn(len(sampleNames))]
		phone := ""
		if rng.Intn(3) > 0 {
			phone = fmt.Sprintf("0151 %08d", rng.Intn(100000000))
		}
		status := domain.DeliveryPending
		if i >= count-resolved {
			status = domain.DeliveryResolved
		}
		out = append(out, domain.FailedDelivery{
			Submission: domain.Submission{
				Name:    name,
				Email:   mailboxFor(name),
				Phone:   phone,
				Message: sampleTopics[rng.Intn(len(sampleTopics))],
			},
			RemoteIP:  fmt.Sprintf("203.0.113.%d", 1+rng.Intn(254)),
			UserAgent: sampleAgents[rng.Intn(len(sampleAgents))],
			Error:     sampleErrors[rng.Intn(len(sampleErrors))],
			Status:    status,
			CreatedAt: now.Add(-time.Duration(i*6+rng.Intn(5)) * time.Hour),
		})
	}
	return out
}

func mailboxFor(name string) string {
	replacer := strings.NewReplacer(" ", ".", "ö", "oe", "ä", "ae", "ü", "ue", "ß", "ss")
	return strings.ToLower(replacer.Replace(name)) + "@example.de"
}

func countResolved(deliveries []domain.FailedDelivery) int {
	n := 0
	for _, d := range deliveries {
		if d.Status == domain.DeliveryResolved {
			n++
		}
	}
	return n
}

func loadEnvFile(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
