// Команда seed пересоздает 20 демо-кандидатов с вложениями.
package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"time"

	"pinkcollar_backend/database"
	"pinkcollar_backend/internal/config"
	"pinkcollar_backend/internal/logger"
	"pinkcollar_backend/internal/models"
	"pinkcollar_backend/internal/repositories"
	"pinkcollar_backend/internal/services"
	"pinkcollar_backend/internal/services/dto"
	"pinkcollar_backend/internal/storage"
	"pinkcollar_backend/internal/validator"
)

const (
	candidatesCount   = 20
	capturedResumeFor = 5
	introVideoFor     = 10
)

var (
	firstNames = []string{"John", "Jane", "Michael", "Sarah", "Robert", "Emma", "David", "Lisa", "Kevin", "Mary", "Peter", "Susan", "James", "Linda"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Wilson", "Anderson", "Taylor", "Thomas"}
	cities     = [][2]string{
		{"New York", "NY"}, {"Los Angeles", "CA"}, {"Chicago", "IL"}, {"Houston", "TX"},
		{"Phoenix", "AZ"}, {"Philadelphia", "PA"}, {"San Antonio", "TX"}, {"San Diego", "CA"},
	}
	institutes   = []string{"State University", "Tech Institute", "Business School", "City College", "National University"}
	salaryRanges = []string{"40k - 80k", "80k - 120k", "120k - 180k", "180k - 250k", "250k+"}
	careerPhases = []string{
		"Entry-Level Professional", "Mid-Level Professional", "Senior-Level Professional",
		"Career Change", "Back to Work", "Retired", "Specially Abled",
	}
	streets     = []string{"Main", "Oak", "Maple", "Pine"}
	streetKinds = []string{"Street", "Avenue", "Boulevard"}
)

// Заглушки файлов: достаточно сигнатуры формата
var (
	pdfStub  = []byte("%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n")
	jpegStub = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}
	mp4Stub  = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00}
)

type stubFile struct {
	slot        models.AttachmentSlot
	filename    string
	contentType string
	content     []byte
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	store, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	candidateRepo := repositories.NewCandidateRepository()
	v := validator.New()
	// без хуков: демо-адреса не получают писем и не геокодируются
	candidateService := services.NewCandidateService(
		candidateRepo,
		repositories.NewAttachmentRepository(),
		store,
		v,
		validator.NewEmailChecker(v, nil),
		services.UploadConfig{
			MaxSize:      cfg.Upload.MaxSize,
			MaxVideoSize: cfg.Upload.MaxVideoSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
		nil,
	)

	ctx := context.Background()

	logger.Info("Clearing existing candidates...")
	existing, err := candidateRepo.ListAll(db, repositories.CandidateFilter{})
	if err != nil {
		logger.Fatal("Failed to list candidates", "error", err)
	}
	for _, c := range existing {
		if _, err := candidateService.Delete(ctx, db, c.ID); err != nil {
			logger.Fatal("Failed to delete candidate", "candidate_id", c.ID, "error", err)
		}
	}

	logger.Info("Creating candidates...")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	for i := 0; i < candidatesCount; i++ {
		req := randomCandidate(rng, i)
		files, err := stubFiles(i < capturedResumeFor, i < introVideoFor)
		if err != nil {
			logger.Fatal("Failed to build attachments", "error", err)
		}

		candidate, err := candidateService.Create(ctx, db, req, files)
		if err != nil {
			logger.Warn("Failed to create candidate", "email", req.Email, "error", err)
			continue
		}
		created++
		logger.Info("Created candidate", "name", candidate.FirstName+" "+candidate.LastName)
	}

	logger.Info("Seed completed", "created", created)
}

func randomCandidate(rng *rand.Rand, i int) *dto.CreateCandidateRequest {
	pick := func(list []string) string { return list[rng.Intn(len(list))] }

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)
	dob := from.AddDate(0, 0, rng.Intn(int(to.Sub(from).Hours()/24)+1))

	city := cities[rng.Intn(len(cities))]
	employed := rng.Intn(2) == 1

	industries := append([]string(nil), models.Industries...)
	rng.Shuffle(len(industries), func(a, b int) { industries[a], industries[b] = industries[b], industries[a] })

	req := &dto.CreateCandidateRequest{
		FirstName:         pick(firstNames),
		LastName:          pick(lastNames),
		Email:             fmt.Sprintf("candidate%d@example.com", i+1),
		ContactNumber:     "+1" + strconv.FormatInt(1000000000+rng.Int63n(9000000000), 10),
		Dob:               dob.Format("2006-01-02"),
		Education:         pick(models.EducationOptions()),
		Experience:        pick(models.ExperienceOptions()),
		ExpectedSalary:    pick(salaryRanges),
		CareerPhase:       pick(careerPhases),
		Function:          pick(models.JobFunctionOptions()),
		Institute:         pick(institutes),
		Address:           fmt.Sprintf("%d %s %s", 100+rng.Intn(900), pick(streets), pick(streetKinds)),
		City:              city[0],
		State:             city[1],
		Industries:        industries[:1+rng.Intn(3)],
		CurrentlyEmployed: employed,
		AdditionalNotes:   fmt.Sprintf("Generated candidate %d", i+1),
	}
	if employed {
		req.CurrentEmployer = fmt.Sprintf("Company %d", 1+rng.Intn(100))
		req.CurrentSalary = strconv.Itoa(25000 + rng.Intn(95001))
	}
	return req
}

func stubFiles(capturedResume, withVideo bool) (dto.CandidateFiles, error) {
	stubs := []stubFile{{models.SlotPhoto, "photo.jpeg", "image/jpeg", jpegStub}}
	if capturedResume {
		stubs = append(stubs, stubFile{models.SlotResumeImage, "resume_image.jpeg", "image/jpeg", jpegStub})
	} else {
		stubs = append(stubs, stubFile{models.SlotResume, "resume.pdf", "application/pdf", pdfStub})
	}
	if withVideo {
		stubs = append(stubs, stubFile{models.SlotIntroVideo, "intro.mp4", "video/mp4", mp4Stub})
	}
	return multipartFiles(stubs)
}

// multipartFiles собирает настоящие *multipart.FileHeader через разбор формы в памяти
func multipartFiles(stubs []stubFile) (dto.CandidateFiles, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, s := range stubs {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, string(s.slot), s.filename))
		header.Set("Content-Type", s.contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(s.content); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		return nil, err
	}

	files := dto.CandidateFiles{}
	for _, s := range stubs {
		if fhs := form.File[string(s.slot)]; len(fhs) > 0 {
			files[s.slot] = fhs[0]
		}
	}
	return files, nil
}
