package db

import (
	"strconv"
	"time"
)

// Категории скидок промогруппы
const (
	DiscountCategoryServers = "servers"
	DiscountCategoryTraffic = "traffic"
	DiscountCategoryDevices = "devices"
	DiscountCategoryPeriod  = "period"
)

type User struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID *int64 `gorm:"uniqueIndex"`

	// Кабинет (веб-доступ)
	Email         *string `gorm:"uniqueIndex"`
	PasswordHash  string
	EmailVerified bool

	Language      string `gorm:"default:ru"`
	BalanceKopeks int

	PromoGroupID *uint
	PromoGroup   *PromoGroup

	// Персональная скидка, выданная через промо-оффер
	OfferDiscountPercent   int
	OfferDiscountSource    string
	OfferDiscountExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActiveOfferDiscount сообщает, действует ли персональная скидка на момент now.
func (u *User) HasActiveOfferDiscount(now time.Time) bool {
	if u.OfferDiscountPercent <= 0 {
		return false
	}
	return u.OfferDiscountExpiresAt == nil || u.OfferDiscountExpiresAt.After(now)
}

type PromoGroup struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`

	ServerDiscountPercent  int
	TrafficDiscountPercent int
	DeviceDiscountPercent  int
	// Скидки на период: {"30": 10, "90": 20}
	PeriodDiscounts map[string]int `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetDiscountPercent возвращает скидку группы для категории.
// Для категории "period" скидка берётся по числу дней периода.
func (g *PromoGroup) GetDiscountPercent(category string, periodDays int) int {
	if g == nil {
		return 0
	}
	var percent int
	switch category {
	case DiscountCategoryServers:
		percent = g.ServerDiscountPercent
	case DiscountCategoryTraffic:
		percent = g.TrafficDiscountPercent
	case DiscountCategoryDevices:
		percent = g.DeviceDiscountPercent
	case DiscountCategoryPeriod:
		percent = g.PeriodDiscounts[strconv.Itoa(periodDays)]
	}
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

type Tariff struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Description  string
	DisplayOrder int
	IsActive     bool `gorm:"default:true"`

	TrafficLimitGB int // 0 = безлимит
	DeviceLimit    int
	TierLevel      int `gorm:"default:1"`

	// Цены по периодам: {"30": 9900} — дни -> копейки
	PeriodPrices map[string]int `gorm:"serializer:json"`
	// Белый список сквадов (серверов); пусто = все
	AllowedSquads []string `gorm:"serializer:json"`
	// Ограничение по промогруппам; пусто = доступен всем
	AllowedPromoGroups []PromoGroup `gorm:"many2many:tariff_promo_groups"`

	// Цены доп. ресурсов за 30-дневный цикл
	DevicePriceKopeks *int
	ServerPriceKopeks *int
	IsTrialAvailable  bool
	TrialDurationDays *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableFor проверяет доступность тарифа для промогруппы пользователя.
func (t *Tariff) AvailableFor(promoGroupID *uint) bool {
	if len(t.AllowedPromoGroups) == 0 {
		return true
	}
	if promoGroupID == nil {
		return false
	}
	for _, g := range t.AllowedPromoGroups {
		if g.ID == *promoGroupID {
			return true
		}
	}
	return false
}

// Статусы подписки
const (
	SubscriptionActive   = "active"
	SubscriptionExpired  = "expired"
	SubscriptionDisabled = "disabled"
)

type Subscription struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"uniqueIndex"`
	TariffID *uint

	Status  string `gorm:"default:active"`
	IsTrial bool
	EndDate time.Time

	TrafficLimitGB  int
	DeviceLimit     int
	ConnectedSquads []string `gorm:"serializer:json"`
	SubscriptionURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingDays — оставшиеся полные дни подписки, не меньше нуля.
func (s *Subscription) RemainingDays(now time.Time) int {
	d := int(s.EndDate.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

type TransactionType string

const (
	TransactionDeposit             TransactionType = "deposit"
	TransactionSubscriptionPayment TransactionType = "subscription_payment"
	TransactionRefund              TransactionType = "refund"
)

// Transaction — запись журнала баланса. После создания не изменяется.
type Transaction struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"index"`
	Type         TransactionType
	AmountKopeks int
	Description  string
	CreatedAt    time.Time
}

// Статусы платежей во внешних шлюзах
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// Payment — платёж во внешнем шлюзе (пополнение баланса).
type Payment struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index"`
	Gateway      string // yookassa, cryptobot, freekassa, platega
	ExternalID   string `gorm:"uniqueIndex"`
	AmountKopeks int
	Status       string `gorm:"default:pending"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Типы эффектов промо-офферов
const (
	OfferEffectPercentDiscount = "percent_discount"
	OfferEffectTestAccess      = "test_access"
)

type DiscountOffer struct {
	ID               uint `gorm:"primaryKey"`
	UserID           uint `gorm:"index"`
	NotificationType string
	EffectType       string `gorm:"default:percent_discount"`
	DiscountPercent  int
	// Срок действия скидки после активации, 0 = бессрочно
	ActiveDiscountHours int
	ExpiresAt           time.Time
	ClaimedAt           *time.Time
	IsActive            bool `gorm:"default:true"`
	CreatedAt           time.Time
}

// Платформы каталога клиентских приложений
var AppPlatforms = []string{"ios", "android", "macos", "windows", "linux", "androidtv", "appletv"}

// App — клиентское приложение, которое кабинет предлагает для подключения.
type App struct {
	ID           uint `gorm:"primaryKey"`
	Platform     string
	Name         string
	DownloadURL  string
	URLScheme    string // deep link для импорта подписки, может быть пустым
	DisplayOrder int
	IsActive     bool `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidAppPlatform проверяет, известна ли платформа каталогу.
func ValidAppPlatform(platform string) bool {
	for _, p := range AppPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Статусы тикетов
const (
	TicketOpen   = "open"
	TicketClosed = "closed"
)

type Ticket struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	Subject   string
	Status    string `gorm:"default:open"`
	Messages  []TicketMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TicketMessage struct {
	ID        uint `gorm:"primaryKey"`
	TicketID  uint `gorm:"index"`
	FromAdmin bool
	Body      string
	CreatedAt time.Time
}
