package seed

import "github.com/fsdevblog/luffy-streaming/internal/domain"

type demoUser struct {
	key        string
	name       string
	email      string
	password   string
	phone      *string
	role       domain.RoleType
	referredBy string
	approve    bool
}

type demoRecharge struct {
	user      string
	amount    string
	method    string
	reference string
	approve   bool
}

type demoProduct struct {
	name            string
	description     string
	provider        string
	priceUSD        string
	pricePEN        string
	category        string
	delivery        domain.DeliveryType
	featured        bool
	image           string
	metaTitle       string
	metaDescription string
}

type demoOrder struct {
	user     string
	products []string
}

type demoConfig struct {
	key   string
	value string
}

func phone(p string) *string { return &p }

var demoConfigs = []demoConfig{
	{key: domain.ConfigSiteName, value: "Luffy Streaming"},
	{key: domain.ConfigCommissionRate, value: "0.10"},
	{key: domain.ConfigUSDToPENRate, value: "3.66"},
	{key: domain.ConfigWhatsAppNumber, value: "51946559632"},
	{key: domain.ConfigMaxLoginAttempts, value: "5"},
	{key: domain.ConfigLoginLockDuration, value: "15"},
}

// Порядок важен: реферер должен быть создан раньше приглашенных им юзеров.
var demoUsers = []demoUser{
	{
		key:      "user",
		name:     "Usuario Demo",
		email:    "user@luffystreaming.com",
		password: "User123!",
		phone:    phone("+51987654321"),
		role:     domain.RoleUser,
	},
	{
		key:      "affiliate",
		name:     "Afiliado Demo",
		email:    "affiliate@luffystreaming.com",
		password: "Affiliate123!",
		phone:    phone("+51912345678"),
		role:     domain.RoleAffiliate,
		approve:  true,
	},
	{
		key:        "juan",
		name:       "Juan Pérez",
		email:      "juan.perez@example.com",
		password:   "User123!",
		role:       domain.RoleUser,
		referredBy: "affiliate",
	},
	{
		key:      "maria",
		name:     "María García",
		email:    "maria.garcia@example.com",
		password: "User123!",
		role:     domain.RoleUser,
	},
	{
		key:        "carlos",
		name:       "Carlos Rodríguez",
		email:      "carlos.rodriguez@example.com",
		password:   "User123!",
		role:       domain.RoleUser,
		referredBy: "affiliate",
	},
	{
		key:      "ana",
		name:     "Ana Martínez",
		email:    "ana.martinez@example.com",
		password: "User123!",
		role:     domain.RoleAffiliate,
	},
}

var demoRecharges = []demoRecharge{
	{user: "user", amount: "50.00", method: "Transferencia Bancaria", reference: "TRX-100001", approve: true},
	{user: "affiliate", amount: "25.00", method: "Yape", reference: "YAPE-200001", approve: true},
	{user: "juan", amount: "20.00", method: "Yape", reference: "YAPE-789012", approve: true},
	{user: "maria", amount: "15.00", method: "Plin", reference: "PLIN-300001", approve: true},
	{user: "carlos", amount: "30.00", method: "Transferencia Bancaria", reference: "TRX-400001", approve: true},
	{user: "user", amount: "30.00", method: "Transferencia Bancaria", reference: "TRX-123456"},
}

var demoProducts = []demoProduct{
	{
		name:            "Netflix Premium",
		description:     "Cuenta Netflix Premium con 4 pantallas simultáneas, calidad 4K Ultra HD. Duración: 1 mes.",
		provider:        "MISTERSHIFU",
		priceUSD:        "3.10",
		pricePEN:        "11.35",
		category:        "Streaming",
		delivery:        domain.DeliveryAutomatic,
		featured:        true,
		image:           "https://images.unsplash.com/photo-1574375927938-d5a98e8ffe85?w=800",
		metaTitle:       "Netflix Premium - 1 Mes",
		metaDescription: "Disfruta de Netflix Premium con 4 pantallas en HD",
	},
	{
		name:            "Spotify Premium",
		description:     "Spotify Premium sin anuncios, música sin límites, calidad alta. Duración: 1 mes.",
		provider:        "MUSICWORLD",
		priceUSD:        "2.50",
		pricePEN:        "9.15",
		category:        "Música",
		delivery:        domain.DeliveryAutomatic,
		featured:        true,
		image:           "https://images.unsplash.com/photo-1614680376593-902f74cf0d41?w=800",
		metaTitle:       "Spotify Premium - 1 Mes",
		metaDescription: "Música sin límites con Spotify Premium",
	},
	{
		name:            "Disney+ Premium",
		description:     "Disney+ con acceso a todo el catálogo, 4 dispositivos, calidad 4K. Duración: 1 mes.",
		provider:        "STREAMKING",
		priceUSD:        "4.00",
		pricePEN:        "14.64",
		category:        "Streaming",
		delivery:        domain.DeliveryManual,
		image:           "https://images.unsplash.com/photo-1626814026160-2237a95fc5a0?w=800",
		metaTitle:       "Disney+ Premium - 1 Mes",
		metaDescription: "Todo el contenido de Disney+ en tu pantalla",
	},
	{
		name:        "HBO Max",
		description: "HBO Max con todo el catálogo de películas y series. Duración: 1 mes.",
		provider:    "STREAMKING",
		priceUSD:    "3.50",
		pricePEN:    "12.81",
		category:    "Streaming",
		delivery:    domain.DeliveryAutomatic,
		image:       "https://images.unsplash.com/photo-1594909122845-11baa439b7bf?w=800",
	},
	{
		name:        "Amazon Prime Video",
		description: "Prime Video con películas, series y contenido exclusivo. Duración: 1 mes.",
		provider:    "PRIMESTORE",
		priceUSD:    "3.00",
		pricePEN:    "10.98",
		category:    "Streaming",
		delivery:    domain.DeliveryAutomatic,
		image:       "https://images.unsplash.com/photo-1560169897-fc0cdbdfa4d5?w=800",
	},
	{
		name:        "YouTube Premium",
		description: "YouTube sin anuncios, con YouTube Music incluido. Duración: 1 mes.",
		provider:    "VIDEOPLUS",
		priceUSD:    "2.80",
		pricePEN:    "10.25",
		category:    "Streaming",
		delivery:    domain.DeliveryAutomatic,
		featured:    true,
		image:       "https://images.unsplash.com/photo-1611162616305-c69b3fa7fbe0?w=800",
	},
	{
		name:        "Crunchyroll Premium",
		description: "Crunchyroll Premium con anime sin anuncios, simulcasts y más. Duración: 1 mes.",
		provider:    "ANIMEWORLD",
		priceUSD:    "2.00",
		pricePEN:    "7.32",
		category:    "Anime",
		delivery:    domain.DeliveryAutomatic,
		image:       "https://images.unsplash.com/photo-1578632767115-351597cf2477?w=800",
	},
	{
		name:        "Canva Pro",
		description: "Canva Pro con acceso a todas las herramientas de diseño premium. Duración: 1 mes.",
		provider:    "DESIGNTOOLS",
		priceUSD:    "5.00",
		pricePEN:    "18.30",
		category:    "Diseño",
		delivery:    domain.DeliveryManual,
		image:       "https://images.unsplash.com/photo-1626785774573-4b799315345d?w=800",
	},
}

var demoOrders = []demoOrder{
	{user: "user", products: []string{"Netflix Premium", "Spotify Premium"}},
	// заказ приглашенного юзера создает комиссию аффилиату.
	{user: "juan", products: []string{"Disney+ Premium"}},
}
