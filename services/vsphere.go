// ABOUTME: vSphere client for server discovery via govmomi
// ABOUTME: Lists VMs in a datacenter and converts them into inventory server rows

package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/migration-advisor/models"
	"github.com/markalston/migration-advisor/store"
)

// vmFetchConcurrency bounds parallel property reads against vCenter.
const vmFetchConcurrency = 8

// technologyLabel prefixes the annotation line that lists installed technologies.
const technologyLabel = "technology:"

// VSphereCredentials holds vCenter connection info
type VSphereCredentials struct {
	Host       string
	Username   string
	Password   string
	Datacenter string
	Insecure   bool
}

// VSphereClient wraps govmomi client for server discovery
type VSphereClient struct {
	creds      VSphereCredentials
	client     *govmomi.Client
	finder     *find.Finder
	datacenter *object.Datacenter
}

// NewVSphereClient creates a new vSphere client
func NewVSphereClient(creds VSphereCredentials) *VSphereClient {
	return &VSphereClient{
		creds: creds,
	}
}

// Connect establishes connection to vCenter
func (v *VSphereClient) Connect(ctx context.Context) error {
	host := v.creds.Host
	if !strings.HasPrefix(host, "https://") && !strings.HasPrefix(host, "http://") {
		host = "https://" + host
	}

	u, err := url.Parse(strings.TrimSuffix(host, "/sdk") + "/sdk")
	if err != nil {
		return fmt.Errorf("invalid vCenter URL '%s': %w", v.creds.Host, err)
	}
	u.User = url.UserPassword(v.creds.Username, v.creds.Password)

	client, err := govmomi.NewClient(ctx, u, v.creds.Insecure)
	if err != nil {
		return describeConnectError(v.creds.Host, err)
	}

	v.client = client
	v.finder = find.NewFinder(client.Client, true)

	dc, err := v.finder.DatacenterOrDefault(ctx, v.creds.Datacenter)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("datacenter '%s' not found - verify the datacenter name", v.creds.Datacenter)
		}
		return fmt.Errorf("error accessing datacenter '%s': %w", v.creds.Datacenter, err)
	}
	v.datacenter = dc
	v.finder.SetDatacenter(dc)

	slog.Info("vSphere connected successfully")
	slog.Debug("vSphere connection details", "host", v.creds.Host, "datacenter", v.creds.Datacenter)
	return nil
}

func describeConnectError(host string, err error) error {
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "connection refused"):
		return fmt.Errorf("connection refused to vCenter at %s - verify the host is reachable", host)
	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf("cannot resolve vCenter hostname '%s' - verify DNS", host)
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "Cannot complete login"):
		return fmt.Errorf("authentication failed - verify username and password")
	case strings.Contains(errStr, "context deadline exceeded") || strings.Contains(errStr, "timeout"):
		return fmt.Errorf("connection timeout to vCenter at %s - check network connectivity", host)
	case strings.Contains(errStr, "certificate") || strings.Contains(errStr, "x509"):
		return fmt.Errorf("SSL certificate error connecting to %s - try setting VSPHERE_INSECURE=true", host)
	}
	return fmt.Errorf("failed to connect to vCenter at %s: %w", host, err)
}

// Disconnect closes the vCenter connection
func (v *VSphereClient) Disconnect(ctx context.Context) error {
	if v.client != nil {
		return v.client.Logout(ctx)
	}
	return nil
}

// IsConnected returns true if client has an active connection
func (v *VSphereClient) IsConnected() bool {
	return v.client != nil && v.client.Valid()
}

// VMInfo holds virtual machine data
type VMInfo struct {
	Name       string
	GuestOS    string
	MemoryMB   int32
	NumCPU     int32
	DiskGB     int
	PowerState string
	Host       string
	Cluster    string
	Template   bool
	Annotation string
}

// DiscoverVMs reads every VM in the datacenter. Property reads run in
// parallel; VMs that cannot be read are skipped.
func (v *VSphereClient) DiscoverVMs(ctx context.Context) ([]VMInfo, error) {
	if v.finder == nil {
		return nil, fmt.Errorf("vSphere client not connected")
	}
	vms, err := v.finder.VirtualMachineList(ctx, "*")
	if err != nil {
		if _, ok := err.(*find.NotFoundError); ok {
			return []VMInfo{}, nil
		}
		return nil, fmt.Errorf("listing VMs: %w", err)
	}

	results := make([]*VMInfo, len(vms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(vmFetchConcurrency)
	for i, vm := range vms {
		g.Go(func() error {
			info, err := v.getVMInfo(gctx, vm)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Debug("Skipping unreadable VM", "vm", vm.Reference().Value, "error", err)
				return nil
			}
			results[i] = &info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("reading VM properties: %w", err)
	}

	out := make([]VMInfo, 0, len(vms))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	slog.Info("vSphere VM discovery complete", "vm_count", len(out), "listed", len(vms))
	return out, nil
}

// getVMInfo retrieves VM configuration
func (v *VSphereClient) getVMInfo(ctx context.Context, vm *object.VirtualMachine) (VMInfo, error) {
	var vmMo mo.VirtualMachine
	err := vm.Properties(ctx, vm.Reference(), []string{"name", "config", "runtime"}, &vmMo)
	if err != nil {
		return VMInfo{}, err
	}

	info := VMInfo{
		Name:       vmMo.Name,
		PowerState: string(vmMo.Runtime.PowerState),
	}

	if vmMo.Config != nil {
		info.GuestOS = vmMo.Config.GuestFullName
		info.MemoryMB = vmMo.Config.Hardware.MemoryMB
		info.NumCPU = vmMo.Config.Hardware.NumCPU
		info.Template = vmMo.Config.Template
		info.Annotation = vmMo.Config.Annotation
		info.DiskGB = diskCapacityGB(vmMo.Config.Hardware.Device)
	}

	if vmMo.Runtime.Host != nil {
		host := object.NewHostSystem(v.client.Client, *vmMo.Runtime.Host)
		var hostMo mo.HostSystem
		if err := host.Properties(ctx, host.Reference(), []string{"name", "parent"}, &hostMo); err == nil {
			info.Host = hostMo.Name
			if hostMo.Parent != nil && hostMo.Parent.Type == "ClusterComputeResource" {
				cluster := object.NewClusterComputeResource(v.client.Client, *hostMo.Parent)
				if name, err := cluster.ObjectName(ctx); err == nil {
					info.Cluster = name
				}
			}
		}
	}

	return info, nil
}

// diskCapacityGB sums the capacity of every virtual disk, rounded up to whole GB.
func diskCapacityGB(devices object.VirtualDeviceList) int {
	var bytes int64
	for _, d := range devices.SelectByType((*types.VirtualDisk)(nil)) {
		disk := d.(*types.VirtualDisk)
		if disk.CapacityInBytes > 0 {
			bytes += disk.CapacityInBytes
		} else {
			bytes += disk.CapacityInKB * 1024
		}
	}
	const gb = 1024 * 1024 * 1024
	return int((bytes + gb - 1) / gb)
}

// ServerRow converts a VM into an inventory server row. Templates are not
// migratable and report false.
func (vm VMInfo) ServerRow() (store.ServerRow, bool) {
	if vm.Template || strings.TrimSpace(vm.Name) == "" {
		return store.ServerRow{}, false
	}

	uptime := ""
	if vm.PowerState == string(types.VirtualMachinePowerStatePoweredOn) {
		uptime = "always-on"
	}

	hosting := "vSphere"
	switch {
	case vm.Cluster != "":
		hosting = "vSphere cluster " + vm.Cluster
	case vm.Host != "":
		hosting = "vSphere host " + vm.Host
	}

	return store.ServerRow{
		ServerID:       vm.Name,
		OSType:         vm.GuestOS,
		VCPU:           int(vm.NumCPU),
		RAM:            int((vm.MemoryMB + 1023) / 1024),
		DiskSize:       vm.DiskGB,
		DiskType:       "",
		UptimePattern:  uptime,
		CurrentHosting: hosting,
		Technology:     parseTechnologies(vm.Annotation),
	}, true
}

// parseTechnologies reads the "technology:" annotation line, if any, as a
// comma-separated tag list.
func parseTechnologies(annotation string) string {
	for _, line := range strings.Split(annotation, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= len(technologyLabel) && strings.EqualFold(line[:len(technologyLabel)], technologyLabel) {
			return strings.Join(splitTags(line[len(technologyLabel):]), ",")
		}
	}
	return ""
}

// DiscoverServers returns the migratable VMs as server rows.
func (v *VSphereClient) DiscoverServers(ctx context.Context) ([]store.ServerRow, error) {
	vms, err := v.DiscoverVMs(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]store.ServerRow, 0, len(vms))
	for _, vm := range vms {
		if row, ok := vm.ServerRow(); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ServerWriter stores discovered servers.
type ServerWriter interface {
	UpsertServer(ctx context.Context, r store.ServerRow) error
}

// ImportServers upserts rows into the inventory. Rows with an invalid server
// id are skipped and counted.
func ImportServers(ctx context.Context, w ServerWriter, rows []store.ServerRow) (models.ImportResult, error) {
	result := models.ImportResult{
		BatchID:   uuid.NewString(),
		Source:    "vsphere",
		Timestamp: time.Now().UTC(),
	}
	for _, r := range rows {
		if err := ValidateComponentID(r.ServerID); err != nil {
			slog.Warn("Skipping VM with unusable name", "batch", result.BatchID, "error", err)
			result.Skipped++
			continue
		}
		if err := w.UpsertServer(ctx, r); err != nil {
			return result, fmt.Errorf("importing server %s: %w", r.ServerID, err)
		}
		result.Imported++
	}
	slog.Info("vSphere import complete", "batch", result.BatchID, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

// VSphereClientFromEnv creates a client from environment variables
func VSphereClientFromEnv(host, user, pass, datacenter string, insecure bool) *VSphereClient {
	return NewVSphereClient(VSphereCredentials{
		Host:       host,
		Username:   user,
		Password:   pass,
		Datacenter: datacenter,
		Insecure:   insecure,
	})
}
