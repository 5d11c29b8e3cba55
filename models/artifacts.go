// ABOUTME: Advisory artifacts returned by the engine: cost, strategy, and timeline
// ABOUTME: JSON field names are the stable contract consumed by the browser client

package models

// Provenance sources.
const (
	SourceLLM       = "llm"
	SourceRuleBased = "rule-based"
)

// Provenance records which backend produced an artifact.
type Provenance struct {
	ConfidenceLevel float64 `json:"confidence_level"`
	FallbackUsed    bool    `json:"fallback_used"`
	ModelIdentifier string  `json:"model_identifier"`
	Source          string  `json:"provenance"`
	Message         string  `json:"message,omitempty"`
	FallbackReason  string  `json:"fallback_reason,omitempty"`
}

// --- Cost estimate ---

// CostEstimate is the component-level cost breakdown.
type CostEstimate struct {
	GrandTotal          GrandTotal          `json:"grand_total"`
	CloudInfrastructure CloudInfrastructure `json:"cloud_infrastructure"`
	MigrationServices   MigrationServices   `json:"migration_services"`
	AIInsights          CostInsights        `json:"ai_insights"`
}

// GrandTotal summarises first-year spend.
type GrandTotal struct {
	AnnualCloudCost      float64 `json:"annual_cloud_cost"`
	OneTimeMigrationCost float64 `json:"one_time_migration_cost"`
	TotalFirstYearCost   float64 `json:"total_first_year_cost"`
}

// CloudInfrastructure groups recurring costs by category.
type CloudInfrastructure struct {
	Servers          ServerCosts   `json:"servers"`
	Databases        DatabaseCosts `json:"databases"`
	Storage          StorageCosts  `json:"storage"`
	TotalMonthlyCost float64       `json:"total_monthly_cost"`
	TotalAnnualCost  float64       `json:"total_annual_cost"`
}

// ServerCosts is the compute category.
type ServerCosts struct {
	TotalMonthlyCost      float64                `json:"total_monthly_cost"`
	TotalAnnualCost       float64                `json:"total_annual_cost"`
	ServerRecommendations []ServerRecommendation `json:"server_recommendations"`
}

// ServerRecommendation is the sizing decision for one server.
type ServerRecommendation struct {
	ServerID            string  `json:"server_id"`
	CurrentSpecs        string  `json:"current_specs"`
	InstanceClass       string  `json:"instance_class"`
	RecommendedInstance string  `json:"recommended_instance"`
	StorageType         string  `json:"storage_type"`
	ComputeMonthlyCost  float64 `json:"compute_monthly_cost"`
	StorageMonthlyCost  float64 `json:"storage_monthly_cost"`
	MonthlyCost         float64 `json:"monthly_cost"`
	AnnualCost          float64 `json:"annual_cost"`
	Reasoning           string  `json:"reasoning"`
}

// DatabaseCosts is the managed database category.
type DatabaseCosts struct {
	TotalMonthlyCost        float64                  `json:"total_monthly_cost"`
	TotalAnnualCost         float64                  `json:"total_annual_cost"`
	DatabaseRecommendations []DatabaseRecommendation `json:"database_recommendations"`
}

// DatabaseRecommendation is the sizing decision for one database.
type DatabaseRecommendation struct {
	DBName              string  `json:"db_name"`
	Engine              string  `json:"engine"`
	SizeGB              int     `json:"size_gb"`
	InstanceClass       string  `json:"instance_class"`
	RecommendedInstance string  `json:"recommended_instance"`
	ManagedService      string  `json:"managed_service"`
	MultiAZ             bool    `json:"multi_az"`
	BackupMonthlyCost   float64 `json:"backup_monthly_cost"`
	MonthlyCost         float64 `json:"monthly_cost"`
	AnnualCost          float64 `json:"annual_cost"`
	Reasoning           string  `json:"reasoning"`
}

// StorageCosts is the object storage category.
type StorageCosts struct {
	TotalMonthlyCost       float64                 `json:"total_monthly_cost"`
	TotalAnnualCost        float64                 `json:"total_annual_cost"`
	StorageRecommendations []StorageRecommendation `json:"storage_recommendations"`
}

// StorageRecommendation is the tiering decision for one file share.
type StorageRecommendation struct {
	ShareName          string  `json:"share_name"`
	SizeGB             int     `json:"size_gb"`
	AccessPattern      string  `json:"access_pattern"`
	StorageClass       string  `json:"storage_class"`
	RecommendedStorage string  `json:"recommended_storage"`
	MonthlyCost        float64 `json:"monthly_cost"`
	AnnualCost         float64 `json:"annual_cost"`
	Reasoning          string  `json:"reasoning"`
}

// MigrationServices is the one-time professional services cost.
type MigrationServices struct {
	TotalProfessionalServicesCost float64             `json:"total_professional_services_cost"`
	ResourceBreakdown             []ResourceCostEntry `json:"resource_breakdown"`
}

// ResourceCostEntry is one staffed role.
type ResourceCostEntry struct {
	Role         string  `json:"role"`
	Weeks        int     `json:"duration_weeks"`
	HoursPerWeek int     `json:"hours_per_week"`
	RatePerHour  float64 `json:"rate_per_hour"`
	TotalCost    float64 `json:"total_cost"`
}

// CostInsights carries provenance plus cost advice.
type CostInsights struct {
	Provenance
	CostOptimizationTips []string `json:"cost_optimization_tips"`
	Recommendations      []string `json:"recommendations"`
}

// --- Migration strategy ---

// MigrationStrategy is the per-component approach plus the phase plan.
type MigrationStrategy struct {
	MigrationApproach   MigrationApproach   `json:"migration_approach"`
	ComponentStrategies ComponentStrategies `json:"component_strategies"`
	MigrationPhases     []MigrationPhase    `json:"migration_phases"`
	Recommendations     StrategyAdvice      `json:"recommendations"`
	RiskAssessment      RiskAssessment      `json:"risk_assessment"`
	AIInsights          StrategyInsights    `json:"ai_insights"`
}

// Overall approaches.
const (
	ApproachLiftAndShift         = "lift-and-shift"
	ApproachHybrid               = "hybrid"
	ApproachPhasedModernisation  = "phased-modernisation"
	MigrationTypeRehost          = "rehost"
	MigrationTypeReplatform      = "replatform"
	MethodDirectCopy             = "direct-copy"
	MethodAsyncSync              = "async-sync"
	MethodBulkApplianceAsyncSync = "bulk-appliance + async-sync"
)

// MigrationApproach is the headline recommendation.
type MigrationApproach struct {
	OverallStrategy   string `json:"overall_strategy"`
	EstimatedDuration string `json:"estimated_duration"`
	ComplexityLevel   Level  `json:"complexity_level"`
	Rationale         string `json:"rationale"`
}

// ComponentStrategies groups per-component decisions.
type ComponentStrategies struct {
	Servers   []ServerStrategy   `json:"servers"`
	Databases []DatabaseStrategy `json:"databases"`
	Storage   []StorageStrategy  `json:"storage"`
}

// ServerStrategy is the migration decision for one server.
type ServerStrategy struct {
	ServerID        string `json:"server_id"`
	MigrationType   string `json:"migration_type"`
	CurrentState    string `json:"current_state"`
	TargetState     string `json:"target_state"`
	Complexity      Level  `json:"complexity"`
	EstimatedEffort string `json:"estimated_effort"`
	Rationale       string `json:"rationale"`
}

// DatabaseStrategy is the migration decision for one database.
type DatabaseStrategy struct {
	DBName                string `json:"db_name"`
	CurrentEngine         string `json:"current_engine"`
	TargetEngine          string `json:"target_engine"`
	MigrationType         string `json:"migration_type"`
	Approach              string `json:"approach"`
	Complexity            Level  `json:"complexity"`
	DataMigrationStrategy string `json:"data_migration_strategy"`
	DowntimeEstimate      string `json:"downtime_estimate"`
	HostServerID          string `json:"host_server_id,omitempty"`
}

// StorageStrategy is the migration decision for one file share.
type StorageStrategy struct {
	ShareName       string `json:"share_name"`
	CurrentType     string `json:"current_type"`
	TargetType      string `json:"target_type"`
	TargetService   string `json:"target_service"`
	MigrationMethod string `json:"migration_method"`
	MigrationTool   string `json:"migration_tool"`
	SyncStrategy    string `json:"sync_strategy"`
	CutoverApproach string `json:"cutover_approach"`
}

// MigrationPhase is one entry in the phase plan.
type MigrationPhase struct {
	Phase           int      `json:"phase"`
	Name            string   `json:"name"`
	DurationWeeks   int      `json:"duration_weeks"`
	Duration        string   `json:"duration"`
	Components      []string `json:"components"`
	Dependencies    []string `json:"dependencies"`
	Risks           []string `json:"risks"`
	SuccessCriteria []string `json:"success_criteria"`
}

// StrategyAdvice lists follow-up recommendations.
type StrategyAdvice struct {
	QuickWins                  []string `json:"quick_wins"`
	CostOptimization           []string `json:"cost_optimization"`
	PerformanceImprovements    []string `json:"performance_improvements"`
	ModernizationOpportunities []string `json:"modernization_opportunities"`
}

// RiskAssessment buckets risks by severity.
type RiskAssessment struct {
	HighRisks            []string          `json:"high_risks"`
	MediumRisks          []string          `json:"medium_risks"`
	LowRisks             []string          `json:"low_risks"`
	MitigationStrategies map[string]string `json:"mitigation_strategies"`
}

// StrategyInsights carries provenance plus strategic advice.
type StrategyInsights struct {
	Provenance
	StrategicRecommendations []string `json:"strategic_recommendations"`
}

// --- Timeline ---

// Timeline is the week-by-week project plan.
type Timeline struct {
	ProjectOverview    ProjectOverview      `json:"project_overview"`
	Phases             []TimelinePhase      `json:"phases"`
	CriticalPath       []string             `json:"critical_path"`
	ResourceAllocation []ResourceAllocation `json:"resource_allocation"`
	RiskMitigation     []RiskMitigation     `json:"risk_mitigation"`
	SuccessCriteria    []string             `json:"success_criteria"`
	AIInsights         TimelineInsights     `json:"ai_insights"`
}

// ProjectOverview holds the headline dates and scores.
type ProjectOverview struct {
	TotalDurationWeeks  int     `json:"total_duration_weeks"`
	TotalDurationMonths float64 `json:"total_duration_months"`
	EstimatedStartDate  string  `json:"estimated_start_date"`
	EstimatedEndDate    string  `json:"estimated_end_date"`
	ConfidenceLevel     float64 `json:"confidence_level"`
	ComplexityScore     float64 `json:"complexity_score"`
}

// TimelinePhase is a contiguous window of weeks.
type TimelinePhase struct {
	Phase             int      `json:"phase"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	DurationWeeks     int      `json:"duration_weeks"`
	StartWeek         int      `json:"start_week"`
	EndWeek           int      `json:"end_week"`
	Dependencies      []string `json:"dependencies"`
	Milestones        []string `json:"milestones"`
	Components        []string `json:"components"`
	Risks             []string `json:"risks"`
	ResourcesRequired []string `json:"resources_required"`
	Status            string   `json:"status"`
}

// ResourceAllocation is how long a role is engaged.
type ResourceAllocation struct {
	Role                string `json:"role"`
	WeeksAllocated      int    `json:"weeks_allocated"`
	OverlapPhases       []int  `json:"overlap_phases"`
	PeakUtilizationWeek int    `json:"peak_utilization_week"`
}

// RiskMitigation pairs a schedule risk with its buffer.
type RiskMitigation struct {
	Risk                string `json:"risk"`
	Probability         Level  `json:"probability"`
	Impact              Level  `json:"impact"`
	MitigationStrategy  string `json:"mitigation_strategy"`
	TimelineBufferWeeks int    `json:"timeline_buffer_weeks"`
}

// TimelineInsights carries provenance plus schedule advice.
type TimelineInsights struct {
	Provenance
	OptimizationSuggestions []string `json:"optimization_suggestions"`
	TimelineRisks           []string `json:"timeline_risks"`
	ResourceRecommendations []string `json:"resource_recommendations"`
}

// --- Status ---

// AIStatus reports whether the LLM path is available.
type AIStatus struct {
	AIEnabled            bool     `json:"ai_enabled"`
	ModelIdentifier      *string  `json:"model_identifier"`
	FallbackMode         bool     `json:"fallback_mode"`
	Message              string   `json:"message"`
	FallbackCapabilities []string `json:"fallback_capabilities,omitempty"`
}
