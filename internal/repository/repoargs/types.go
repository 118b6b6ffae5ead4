package repoargs

type RepositoryName string

const (
	UserRepoName       RepositoryName = "user"
	ProductRepoName    RepositoryName = "product"
	CredentialRepoName RepositoryName = "credential"
	OrderRepoName      RepositoryName = "order"
	RechargeRepoName   RepositoryName = "recharge"
	CommissionRepoName RepositoryName = "commission"
	WalletRepoName     RepositoryName = "wallet_transaction"
	AuditRepoName      RepositoryName = "audit_log"
	ConfigRepoName     RepositoryName = "system_config"
	StatsRepoName      RepositoryName = "stats"
)

// Page параметры постраничной выборки. Нулевой Limit означает значение по умолчанию репозитория.
type Page struct {
	Limit  uint
	Offset uint
}

type BatchExecQueryRow func(i int, err error)
