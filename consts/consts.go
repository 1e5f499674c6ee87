package consts

// UpdateStatusType 更新状态
type UpdateStatusType string

const (
	// UpdatedNothing 未改变
	UpdatedNothing UpdateStatusType = "UnChanged"
	// UpdatedFailed 更新失败
	UpdatedFailed UpdateStatusType = "Failure"
	// UpdatedSuccess 更新成功
	UpdatedSuccess UpdateStatusType = "Success"
	// UpdatedCreated 新建记录
	UpdatedCreated UpdateStatusType = "Created"
)

// RecordType DNS record type managed by the updater.
type RecordType string

const (
	RecordTypeA    RecordType = "A"
	RecordTypeAAAA RecordType = "AAAA"
)

// RecordTypes lists every managed record type, A first.
var RecordTypes = []RecordType{RecordTypeA, RecordTypeAAAA}

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderCacheControl  = "Cache-Control"
	ContentTypeJSON     = "application/json"
	DefaultDDNSName     = "default"
	DefaultProvider     = "cloudflare"
)

const (
	DefaultCheckURLV4 = "https://api4.ipify.org?format=text"
	DefaultCheckURLV6 = "https://api6.ipify.org?format=text"
	// DefaultTTL seconds
	DefaultTTL = 300
	// ReInitWindow seconds between forced re-initialisations when reInit is not set
	ReInitWindow = 300
)

const (
	StatusReady   int32 = 0  // Job or Timer is ready for running.
	StatusRunning int32 = 1  // Job or Timer is already running.
	StatusStopped int32 = 2  // Job or Timer is stopped.
	StatusClosed  int32 = -1 // Job or Timer is closed and waiting to be deleted.
)
