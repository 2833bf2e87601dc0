package server

import (
	"io"

	"darkitchen/internal/config"
	"darkitchen/internal/handler"
	infraRepo "darkitchen/internal/infra/repository"
	"darkitchen/internal/usecase"
	auth "darkitchen/internal/usecase/auth_usecase"
	"darkitchen/internal/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 外から差し替える部品（テストでは固定の時計・乱数・偽の分類サービス）
type Deps struct {
	DB         *gorm.DB
	Classifier usecase.CategoryClassifier
	Clock      auth.Clock
	Entropy    io.Reader
}

// App はハンドラ一式
type App struct {
	Orders      *handler.OrderHandler
	StaffOrders *handler.StaffOrderHandler
	Clients     *handler.ClientHandler
	Menu        *handler.MenuHandler
}

// NewApp は repository → usecase → handler の順に組み立てる
func NewApp(cfg config.Config, log logrus.FieldLogger, d Deps) (*App, error) {
	//Repository（GORM実装）
	clientRepo := infraRepo.NewClientGormRepository(d.DB)
	dishRepo := infraRepo.NewDishGormRepository(d.DB)
	categoryRepo := infraRepo.NewCategoryGormRepository(d.DB)
	orderRepo := infraRepo.NewOrderGormRepository(d.DB)
	auditRepo := infraRepo.NewAuditLogGormRepository(d.DB)
	txm := infraRepo.NewTxManagerGorm(d.DB)

	//認証情報（bcrypt or plain）
	hasher, verifier, err := auth.NewCredentialScheme(cfg.CredentialScheme, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	inputValidator := validator.NewInputValidator()

	//Usecase
	resolver := usecase.NewClientResolver(hasher, d.Entropy, d.Clock)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, clientRepo, resolver, inputValidator, d.Clock, log)
	staffUC := usecase.NewStaffOrderUsecase(txm, orderRepo, auditRepo, d.Clock)
	registerUC := auth.NewRegisterClientUsecase(clientRepo, hasher, d.Clock)
	clientUC := usecase.NewClientUsecase(txm, clientRepo, orderRepo, registerUC, hasher, verifier, inputValidator, d.Clock)
	loginUC := auth.NewClientLoginUsecase(clientRepo, verifier, issuer, d.Clock)
	menuUC := usecase.NewMenuUsecase(dishRepo, categoryRepo, d.Classifier, log)

	//Handler
	return &App{
		Orders:      handler.NewOrderHandler(orderUC, loginUC),
		StaffOrders: handler.NewStaffOrderHandler(staffUC),
		Clients:     handler.NewClientHandler(clientUC),
		Menu:        handler.NewMenuHandler(menuUC),
	}, nil
}
