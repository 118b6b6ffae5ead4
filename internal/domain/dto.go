package domain

type RoleType string

const (
	RoleUser      RoleType = "USER"
	RoleAdmin     RoleType = "ADMIN"
	RoleAffiliate RoleType = "AFFILIATE"
)

type UserStatusType string

const (
	UserStatusActive    UserStatusType = "ACTIVE"
	UserStatusInactive  UserStatusType = "INACTIVE"
	UserStatusPending   UserStatusType = "PENDING"
	UserStatusSuspended UserStatusType = "SUSPENDED"
)

type ProductStatusType string

const (
	ProductStatusActive   ProductStatusType = "ACTIVE"
	ProductStatusInactive ProductStatusType = "INACTIVE"
)

type DeliveryType string

const (
	DeliveryAutomatic DeliveryType = "AUTOMATIC"
	DeliveryManual    DeliveryType = "MANUAL"
)

type OrderStatusType string

const (
	OrderStatusPending    OrderStatusType = "PENDING"
	OrderStatusProcessing OrderStatusType = "PROCESSING"
	OrderStatusCompleted  OrderStatusType = "COMPLETED"
	OrderStatusCancelled  OrderStatusType = "CANCELLED"
)

// CanTransitionTo проверяет допустимость перехода заказа в статус next.
func (s OrderStatusType) CanTransitionTo(next OrderStatusType) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing || next == OrderStatusCompleted || next == OrderStatusCancelled
	case OrderStatusProcessing:
		return next == OrderStatusCompleted || next == OrderStatusCancelled
	default:
		return false
	}
}

type PaymentStatusType string

const (
	PaymentStatusPending  PaymentStatusType = "PENDING"
	PaymentStatusPaid     PaymentStatusType = "PAID"
	PaymentStatusRefunded PaymentStatusType = "REFUNDED"
)

type RechargeStatusType string

const (
	RechargeStatusPending  RechargeStatusType = "PENDING"
	RechargeStatusApproved RechargeStatusType = "APPROVED"
	RechargeStatusRejected RechargeStatusType = "REJECTED"
)

type CommissionStatusType string

const (
	CommissionStatusPending   CommissionStatusType = "PENDING"
	CommissionStatusPaid      CommissionStatusType = "PAID"
	CommissionStatusCancelled CommissionStatusType = "CANCELLED"
)

// DirectionType направление движения средств по кошельку: credit пополняет, debit списывает.
type DirectionType string

const (
	DirectionDebit  DirectionType = "debit"
	DirectionCredit DirectionType = "credit"
)

type WalletTransactionKind string

const (
	WalletKindRecharge   WalletTransactionKind = "RECHARGE"
	WalletKindPurchase   WalletTransactionKind = "PURCHASE"
	WalletKindRefund     WalletTransactionKind = "REFUND"
	WalletKindCommission WalletTransactionKind = "COMMISSION"
)

type AuditAction string

const (
	AuditLogin             AuditAction = "LOGIN"
	AuditRegister          AuditAction = "REGISTER"
	AuditUserUpdated       AuditAction = "USER_UPDATED"
	AuditUserDeleted       AuditAction = "USER_DELETED"
	AuditProductCreated    AuditAction = "PRODUCT_CREATED"
	AuditProductUpdated    AuditAction = "PRODUCT_UPDATED"
	AuditProductDeleted    AuditAction = "PRODUCT_DELETED"
	AuditCredentialsAdded  AuditAction = "CREDENTIALS_ADDED"
	AuditOrderCreated      AuditAction = "ORDER_CREATED"
	AuditOrderStatus       AuditAction = "ORDER_STATUS_CHANGED"
	AuditOrderItemDelivery AuditAction = "ORDER_ITEM_DELIVERED"
	AuditRechargeCreated   AuditAction = "RECHARGE_CREATED"
	AuditRechargeApproved  AuditAction = "RECHARGE_APPROVED"
	AuditRechargeRejected  AuditAction = "RECHARGE_REJECTED"
	AuditAffiliateApproved AuditAction = "AFFILIATE_APPROVED"
	AuditAffiliateStatus   AuditAction = "AFFILIATE_STATUS_CHANGED"
	AuditCommissionPaid    AuditAction = "COMMISSION_PAID"
	AuditConfigUpdated     AuditAction = "CONFIG_UPDATED"
)

// Ключи системных настроек.
const (
	ConfigSiteName          = "SITE_NAME"
	ConfigCommissionRate    = "COMMISSION_RATE"
	ConfigUSDToPENRate      = "USD_TO_PEN_RATE"
	ConfigWhatsAppNumber    = "WHATSAPP_NUMBER"
	// MAX_LOGIN_ATTEMPTS и LOGIN_LOCK_DURATION работают только при заданном REDIS_ADDR.
	ConfigMaxLoginAttempts  = "MAX_LOGIN_ATTEMPTS"
	ConfigLoginLockDuration = "LOGIN_LOCK_DURATION"
)
