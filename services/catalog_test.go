// ABOUTME: Tests for catalog lookups and legacy detection
// ABOUTME: Checks that legacy tags match whole words only

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/markalston/migration-advisor/models"
)

func TestLegacyReason(t *testing.T) {
	tests := []struct {
		name   string
		server models.Server
		want   string
	}{
		{"cobol", models.Server{Technologies: []string{"COBOL"}}, `legacy technology "cobol"`},
		{"flash player", models.Server{Technologies: []string{"Adobe Flash Player"}}, `legacy technology "flash"`},
		{"flashback is not flash", models.Server{Technologies: []string{"Flashback DB"}}, ""},
		{"java version", models.Server{Technologies: []string{"Java 1.6.0_45"}}, `legacy technology "java 1.6"`},
		{"java 1.60 is not 1.6", models.Server{Technologies: []string{"Java 1.60"}}, ""},
		{"dotnet", models.Server{Technologies: []string{".NET Framework 3.5"}}, `legacy technology ".net framework 3"`},
		{"hp-ux", models.Server{OSFamily: "HP-UX 11i"}, `legacy operating system "hp-ux"`},
		{"aix", models.Server{OSFamily: "IBM AIX 7.2"}, `legacy operating system "aix"`},
		{"aix inside a word", models.Server{OSFamily: "Maixtool Linux"}, ""},
		{"centos 6", models.Server{OSFamily: "CentOS 6.10"}, `legacy operating system "centos 6"`},
		{"centos 64-bit", models.Server{OSFamily: "CentOS 64-bit"}, ""},
		{"windows 2008 r2", models.Server{OSFamily: "Windows Server 2008 R2"}, `legacy operating system "windows server 2008"`},
		{"modern", models.Server{OSFamily: "Ubuntu 22.04", Technologies: []string{"nginx"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, legacyReason(tt.server))
		})
	}
}
