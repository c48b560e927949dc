package googlefit

import "time"

// Google Fit encodes int64 fields as JSON strings.

type AggregateRequest struct {
	AggregateBy     []AggregateBy `json:"aggregateBy"`
	BucketByTime    *BucketByTime `json:"bucketByTime,omitempty"`
	StartTimeMillis int64         `json:"startTimeMillis,string"`
	EndTimeMillis   int64         `json:"endTimeMillis,string"`
}

type AggregateBy struct {
	DataTypeName string `json:"dataTypeName,omitempty"`
	DataSourceID string `json:"dataSourceId,omitempty"`
}

// BucketByTime sets either DurationMillis or Period.
type BucketByTime struct {
	DurationMillis int64         `json:"durationMillis,string,omitempty"`
	Period         *BucketPeriod `json:"period,omitempty"`
}

type BucketPeriod struct {
	Type       string `json:"type"`
	Value      int    `json:"value"`
	TimeZoneID string `json:"timeZoneId"`
}

const PeriodDay = "day"

type AggregateResponse struct {
	Bucket []AggregateBucket `json:"bucket"`
}

type AggregateBucket struct {
	StartTimeMillis int64     `json:"startTimeMillis,string"`
	EndTimeMillis   int64     `json:"endTimeMillis,string"`
	Dataset         []Dataset `json:"dataset"`
}

func (b AggregateBucket) Start() time.Time { return time.UnixMilli(b.StartTimeMillis) }

type Dataset struct {
	DataSourceID   string      `json:"dataSourceId"`
	MinStartTimeNs int64       `json:"minStartTimeNs,string,omitempty"`
	MaxEndTimeNs   int64       `json:"maxEndTimeNs,string,omitempty"`
	Point          []DataPoint `json:"point"`
}

type DataPoint struct {
	StartTimeNanos     int64   `json:"startTimeNanos,string"`
	EndTimeNanos       int64   `json:"endTimeNanos,string"`
	DataTypeName       string  `json:"dataTypeName"`
	OriginDataSourceID string  `json:"originDataSourceId,omitempty"`
	Value              []Value `json:"value"`
}

func (p DataPoint) Start() time.Time { return time.Unix(0, p.StartTimeNanos) }
func (p DataPoint) End() time.Time   { return time.Unix(0, p.EndTimeNanos) }

// Value holds one field of a data point. Exactly one member is set.
type Value struct {
	IntVal    *int64   `json:"intVal,omitempty"`
	FpVal     *float64 `json:"fpVal,omitempty"`
	StringVal *string  `json:"stringVal,omitempty"`
}

// Float returns whichever numeric member is set.
func (v Value) Float() (float64, bool) {
	switch {
	case v.FpVal != nil:
		return *v.FpVal, true
	case v.IntVal != nil:
		return float64(*v.IntVal), true
	default:
		return 0, false
	}
}

func IntValue(v int64) Value     { return Value{IntVal: &v} }
func FloatValue(v float64) Value { return Value{FpVal: &v} }

type DataSource struct {
	DataStreamID   string      `json:"dataStreamId,omitempty"`
	DataStreamName string      `json:"dataStreamName,omitempty"`
	Type           string      `json:"type"`
	Application    Application `json:"application"`
	DataType       DataType    `json:"dataType"`
}

const DataSourceTypeRaw = "raw"

type Application struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type DataType struct {
	Name  string          `json:"name"`
	Field []DataTypeField `json:"field"`
}

type DataTypeField struct {
	Name     string `json:"name"`
	Format   string `json:"format"`
	Optional bool   `json:"optional,omitempty"`
}

const (
	FormatInteger     = "integer"
	FormatFloatPoint  = "floatPoint"
	FormatString      = "string"
	FormatMapValFloat = "map"
	FormatIntegerList = "integerList"
	FormatFloatList   = "floatList"
	FormatBlob        = "blob"
)

type listDataSourcesResponse struct {
	DataSource []DataSource `json:"dataSource"`
}

type Session struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description,omitempty"`
	StartTimeMillis    int64       `json:"startTimeMillis,string"`
	EndTimeMillis      int64       `json:"endTimeMillis,string"`
	ModifiedTimeMillis int64       `json:"modifiedTimeMillis,string,omitempty"`
	ActiveTimeMillis   int64       `json:"activeTimeMillis,string,omitempty"`
	ActivityType       int         `json:"activityType"`
	Application        Application `json:"application"`
}

func (s Session) Start() time.Time { return time.UnixMilli(s.StartTimeMillis) }
func (s Session) End() time.Time   { return time.UnixMilli(s.EndTimeMillis) }

type ListSessionsParams struct {
	StartTime      time.Time
	EndTime        time.Time
	ActivityType   []int
	IncludeDeleted bool
	PageToken      string
}

type ListSessionsResponse struct {
	Session        []Session `json:"session"`
	DeletedSession []Session `json:"deletedSession"`
	NextPageToken  string    `json:"nextPageToken"`
	HasMoreData    bool      `json:"hasMoreData"`
}

func (r *ListSessionsResponse) HasMore() bool {
	return r.NextPageToken != ""
}
